// Package network builds the VPC of a single region.
//
// A build runs five steps in order: create the VPC and wait for it,
// create and attach an internet gateway, allow ICMP from 10.0.0.0/8 on
// every security group, name every route table and add a default route
// to the gateway, and create one subnet per tier per availability zone.
package network

// Package provisioning provides shared types and observability for mesh provisioning.
//
// The provisioning domain is organized into focused subpackages:
//   - network/ - one VPC per region with gateway, ingress rule, routes and tier subnets
//   - mesh/ - pairwise VPC peering and the routes across it
//
// This root package contains the records exchanged between the two
// phases and the [Observer] used to write the log stream.
package provisioning

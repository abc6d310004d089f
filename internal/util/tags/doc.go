// Package tags provides consistent tagging for EC2 resources.
//
// Every resource carries a Name tag from the naming package plus
// gvpc-prefixed keys identifying the run, region, tier and zone, so that
// resources of one mesh can be found by tag filter.
package tags

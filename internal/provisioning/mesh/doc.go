// Package mesh connects regional networks into a full mesh.
//
// [Pairs] enumerates every unordered pair of built networks once. For each
// pair the [Connector] requests a VPC peering connection from the first
// network, waits until the second region sees it, accepts it there and
// adds a route to the other side's CIDR in every route table of both
// networks.
package mesh

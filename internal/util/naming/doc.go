// Package naming provides consistent Name tag values for EC2 resources.
//
// Names follow the pattern {kind}-{scope}-gvpc, where kind is the AWS
// resource prefix (vpc, igw, rtb, subnet, pcx) and scope is the region,
// the zone ID plus tier, or the requester/accepter region pair.
package naming

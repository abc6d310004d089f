// Package addressing turns a numeric region offset into non-overlapping
// IPv4 blocks.
//
// Every region gets a /16 of the form 10.<offset>.0.0/16. Inside it, each
// availability zone gets one /22 per tier; the third octet of a tier
// block is zoneIndex*SubnetStride + tier start. The four tiers (public,
// private, data, admin) start at fixed third-octet values, which caps the
// number of zones a region can hold at MaxZonesPerRegion.
//
// All functions are pure: same inputs, same blocks.
package addressing

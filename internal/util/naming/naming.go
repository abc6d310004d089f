package naming

import "fmt"

// Suffix marks every resource created by gvpc.
const Suffix = "gvpc"

// Naming functions for Name tags.
// All resources follow the {kind}-{scope}-gvpc pattern so that they can
// be found in the console and cleaned up by tag.

func VPC(region string) string {
	return fmt.Sprintf("vpc-%s-%s", region, Suffix)
}

func InternetGateway(region string) string {
	return fmt.Sprintf("igw-%s-%s", region, Suffix)
}

func RouteTable(region string) string {
	return fmt.Sprintf("rtb-%s-%s", region, Suffix)
}

// Subnet uses the zone ID rather than the zone name because zone IDs are
// stable across accounts.
func Subnet(zoneID, tier string) string {
	return fmt.Sprintf("subnet-%s-%s-%s", zoneID, abbreviate(tier), Suffix)
}

func Peering(requester, accepter string) string {
	return fmt.Sprintf("pcx-%s-%s-%s", requester, accepter, Suffix)
}

// abbreviate shortens a tier name to its first three characters.
func abbreviate(tier string) string {
	if len(tier) <= 3 {
		return tier
	}
	return tier[:3]
}

package ec2

import (
	"context"
	"time"
)

// PrivateRange is the address space shared by every regional VPC.
const PrivateRange = "10.0.0.0/8"

// IngressRule is a single security group ingress permission.
// Ports are -1 for protocols without ports (ICMP type/code "any").
type IngressRule struct {
	Protocol    string
	FromPort    int32
	ToPort      int32
	CIDR        string
	Description string
}

// ICMPFromMesh allows any ICMP type and code from the mesh address space.
func ICMPFromMesh() IngressRule {
	return IngressRule{
		Protocol:    "icmp",
		FromPort:    -1,
		ToPort:      -1,
		CIDR:        PrivateRange,
		Description: "ICMP from peered regions",
	}
}

// RouteTarget is where a route sends traffic. Exactly one field is set.
type RouteTarget struct {
	GatewayID string
	PeeringID string
}

// ViaGateway targets an internet gateway.
func ViaGateway(id string) RouteTarget {
	return RouteTarget{GatewayID: id}
}

// ViaPeering targets a VPC peering connection.
func ViaPeering(id string) RouteTarget {
	return RouteTarget{PeeringID: id}
}

// Zone is an availability zone as reported by the provider.
type Zone struct {
	Name string // e.g. eu-west-1a
	ID   string // e.g. euw1-az1
}

// RegionLister enumerates the regions enabled for the account.
type RegionLister interface {
	ListRegions(ctx context.Context) ([]string, error)
}

// NetworkManager creates regional VPCs.
type NetworkManager interface {
	CreateNetwork(ctx context.Context, region, cidr string, tags map[string]string) (string, error)
	// WaitUntilNetworkAvailable blocks until the VPC is usable or timeout elapses.
	WaitUntilNetworkAvailable(ctx context.Context, region, networkID string, timeout time.Duration) error
}

// GatewayManager creates and attaches internet gateways.
type GatewayManager interface {
	CreateExternalGateway(ctx context.Context, region string, tags map[string]string) (string, error)
	AttachGateway(ctx context.Context, region, networkID, gatewayID string) error
}

// SecurityGroupManager lists and opens security groups of a VPC.
type SecurityGroupManager interface {
	ListSecurityGroups(ctx context.Context, region, networkID string) ([]string, error)
	AuthorizeIngress(ctx context.Context, region, groupID string, rule IngressRule) error
}

// RouteManager lists route tables and writes routes.
type RouteManager interface {
	ListRouteTables(ctx context.Context, region, networkID string) ([]string, error)
	CreateRoute(ctx context.Context, region, routeTableID, destinationCIDR string, target RouteTarget) error
}

// ResourceTagger tags any resource by ID.
type ResourceTagger interface {
	TagResource(ctx context.Context, region, resourceID string, tags map[string]string) error
}

// SubnetManager creates subnets in availability zones.
type SubnetManager interface {
	ListAvailabilityZones(ctx context.Context, region string) ([]Zone, error)
	CreateSubnet(ctx context.Context, region, networkID, cidr, zone string, tags map[string]string) (string, error)
}

// PeeringManager requests and accepts inter-region VPC peering.
type PeeringManager interface {
	// RequestPeering is issued in the requester region.
	RequestPeering(ctx context.Context, region, networkID, peerNetworkID, peerRegion string, tags map[string]string) (string, error)
	// WaitUntilPeeringVisible waits in the accepter region until the request shows up.
	WaitUntilPeeringVisible(ctx context.Context, region, peeringID string, timeout time.Duration) error
	AcceptPeering(ctx context.Context, region, peeringID string) error
}

// Provider is the full capability set used to build the mesh.
// Every call names its region explicitly because EC2 clients are region scoped.
type Provider interface {
	RegionLister
	NetworkManager
	GatewayManager
	SecurityGroupManager
	RouteManager
	ResourceTagger
	SubnetManager
	PeeringManager
}

package ec2

import (
	"context"
	"sync"
	"time"
)

// Call is one recorded invocation of a MockClient method.
type Call struct {
	Operation string
	Region    string
	Args      []string
}

// MockClient is a mock implementation of Provider.
//
// Each method calls the matching Func field when set. Without one, create
// methods return a deterministic ID derived from their arguments and every
// other method succeeds with an empty result. All calls are recorded and
// safe for concurrent use.
type MockClient struct {
	ListRegionsFunc func(ctx context.Context) ([]string, error)

	CreateNetworkFunc             func(ctx context.Context, region, cidr string, tags map[string]string) (string, error)
	WaitUntilNetworkAvailableFunc func(ctx context.Context, region, networkID string, timeout time.Duration) error

	CreateExternalGatewayFunc func(ctx context.Context, region string, tags map[string]string) (string, error)
	AttachGatewayFunc         func(ctx context.Context, region, networkID, gatewayID string) error

	ListSecurityGroupsFunc func(ctx context.Context, region, networkID string) ([]string, error)
	AuthorizeIngressFunc   func(ctx context.Context, region, groupID string, rule IngressRule) error

	ListRouteTablesFunc func(ctx context.Context, region, networkID string) ([]string, error)
	CreateRouteFunc     func(ctx context.Context, region, routeTableID, destinationCIDR string, target RouteTarget) error

	TagResourceFunc func(ctx context.Context, region, resourceID string, tags map[string]string) error

	ListAvailabilityZonesFunc func(ctx context.Context, region string) ([]Zone, error)
	CreateSubnetFunc          func(ctx context.Context, region, networkID, cidr, zone string, tags map[string]string) (string, error)

	RequestPeeringFunc          func(ctx context.Context, region, networkID, peerNetworkID, peerRegion string, tags map[string]string) (string, error)
	WaitUntilPeeringVisibleFunc func(ctx context.Context, region, peeringID string, timeout time.Duration) error
	AcceptPeeringFunc           func(ctx context.Context, region, peeringID string) error

	mu    sync.Mutex
	calls []Call
}

var _ Provider = (*MockClient)(nil)

func (m *MockClient) record(op, region string, args ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Operation: op, Region: region, Args: args})
}

// Calls returns a copy of all recorded calls in invocation order.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsTo returns the recorded calls of one operation.
func (m *MockClient) CallsTo(op string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Operation == op {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns how often an operation was called.
func (m *MockClient) CallCount(op string) int {
	return len(m.CallsTo(op))
}

// ListRegions implements Provider.
func (m *MockClient) ListRegions(ctx context.Context) ([]string, error) {
	m.record("ListRegions", "")
	if m.ListRegionsFunc != nil {
		return m.ListRegionsFunc(ctx)
	}
	return nil, nil
}

// CreateNetwork implements Provider.
func (m *MockClient) CreateNetwork(ctx context.Context, region, cidr string, tags map[string]string) (string, error) {
	m.record("CreateNetwork", region, cidr)
	if m.CreateNetworkFunc != nil {
		return m.CreateNetworkFunc(ctx, region, cidr, tags)
	}
	return "vpc-" + region, nil
}

// WaitUntilNetworkAvailable implements Provider.
func (m *MockClient) WaitUntilNetworkAvailable(ctx context.Context, region, networkID string, timeout time.Duration) error {
	m.record("WaitUntilNetworkAvailable", region, networkID)
	if m.WaitUntilNetworkAvailableFunc != nil {
		return m.WaitUntilNetworkAvailableFunc(ctx, region, networkID, timeout)
	}
	return nil
}

// CreateExternalGateway implements Provider.
func (m *MockClient) CreateExternalGateway(ctx context.Context, region string, tags map[string]string) (string, error) {
	m.record("CreateExternalGateway", region)
	if m.CreateExternalGatewayFunc != nil {
		return m.CreateExternalGatewayFunc(ctx, region, tags)
	}
	return "igw-" + region, nil
}

// AttachGateway implements Provider.
func (m *MockClient) AttachGateway(ctx context.Context, region, networkID, gatewayID string) error {
	m.record("AttachGateway", region, networkID, gatewayID)
	if m.AttachGatewayFunc != nil {
		return m.AttachGatewayFunc(ctx, region, networkID, gatewayID)
	}
	return nil
}

// ListSecurityGroups implements Provider.
func (m *MockClient) ListSecurityGroups(ctx context.Context, region, networkID string) ([]string, error) {
	m.record("ListSecurityGroups", region, networkID)
	if m.ListSecurityGroupsFunc != nil {
		return m.ListSecurityGroupsFunc(ctx, region, networkID)
	}
	return nil, nil
}

// AuthorizeIngress implements Provider.
func (m *MockClient) AuthorizeIngress(ctx context.Context, region, groupID string, rule IngressRule) error {
	m.record("AuthorizeIngress", region, groupID, rule.Protocol, rule.CIDR)
	if m.AuthorizeIngressFunc != nil {
		return m.AuthorizeIngressFunc(ctx, region, groupID, rule)
	}
	return nil
}

// ListRouteTables implements Provider.
func (m *MockClient) ListRouteTables(ctx context.Context, region, networkID string) ([]string, error) {
	m.record("ListRouteTables", region, networkID)
	if m.ListRouteTablesFunc != nil {
		return m.ListRouteTablesFunc(ctx, region, networkID)
	}
	return nil, nil
}

// CreateRoute implements Provider.
func (m *MockClient) CreateRoute(ctx context.Context, region, routeTableID, destinationCIDR string, target RouteTarget) error {
	m.record("CreateRoute", region, routeTableID, destinationCIDR, target.GatewayID+target.PeeringID)
	if m.CreateRouteFunc != nil {
		return m.CreateRouteFunc(ctx, region, routeTableID, destinationCIDR, target)
	}
	return nil
}

// TagResource implements Provider.
func (m *MockClient) TagResource(ctx context.Context, region, resourceID string, tags map[string]string) error {
	m.record("TagResource", region, resourceID)
	if m.TagResourceFunc != nil {
		return m.TagResourceFunc(ctx, region, resourceID, tags)
	}
	return nil
}

// ListAvailabilityZones implements Provider.
func (m *MockClient) ListAvailabilityZones(ctx context.Context, region string) ([]Zone, error) {
	m.record("ListAvailabilityZones", region)
	if m.ListAvailabilityZonesFunc != nil {
		return m.ListAvailabilityZonesFunc(ctx, region)
	}
	return nil, nil
}

// CreateSubnet implements Provider.
func (m *MockClient) CreateSubnet(ctx context.Context, region, networkID, cidr, zone string, tags map[string]string) (string, error) {
	m.record("CreateSubnet", region, networkID, cidr, zone)
	if m.CreateSubnetFunc != nil {
		return m.CreateSubnetFunc(ctx, region, networkID, cidr, zone, tags)
	}
	return "subnet-" + cidr, nil
}

// RequestPeering implements Provider.
func (m *MockClient) RequestPeering(ctx context.Context, region, networkID, peerNetworkID, peerRegion string, tags map[string]string) (string, error) {
	m.record("RequestPeering", region, networkID, peerNetworkID, peerRegion)
	if m.RequestPeeringFunc != nil {
		return m.RequestPeeringFunc(ctx, region, networkID, peerNetworkID, peerRegion, tags)
	}
	return "pcx-" + networkID + "-" + peerNetworkID, nil
}

// WaitUntilPeeringVisible implements Provider.
func (m *MockClient) WaitUntilPeeringVisible(ctx context.Context, region, peeringID string, timeout time.Duration) error {
	m.record("WaitUntilPeeringVisible", region, peeringID)
	if m.WaitUntilPeeringVisibleFunc != nil {
		return m.WaitUntilPeeringVisibleFunc(ctx, region, peeringID, timeout)
	}
	return nil
}

// AcceptPeering implements Provider.
func (m *MockClient) AcceptPeering(ctx context.Context, region, peeringID string) error {
	m.record("AcceptPeering", region, peeringID)
	if m.AcceptPeeringFunc != nil {
		return m.AcceptPeeringFunc(ctx, region, peeringID)
	}
	return nil
}

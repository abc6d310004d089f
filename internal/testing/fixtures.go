package testing

import (
	"context"
	"slices"

	"github.com/imamik/gvpc/internal/platform/ec2"
)

// MeshFixture provides a pre-configured ec2.MockClient for mesh scenarios.
type MeshFixture struct {
	mock *ec2.MockClient
}

// NewMeshFixture creates a new fixture around an empty MockClient.
func NewMeshFixture() *MeshFixture {
	return &MeshFixture{mock: &ec2.MockClient{}}
}

// Mock returns the underlying MockClient for custom configuration.
func (f *MeshFixture) Mock() *ec2.MockClient {
	return f.mock
}

// WithRegions makes ListRegions report the given regions.
func (f *MeshFixture) WithRegions(regions ...string) *MeshFixture {
	regions = slices.Clone(regions)
	f.mock.ListRegionsFunc = func(context.Context) ([]string, error) {
		return regions, nil
	}
	return f
}

// Healthy configures every VPC with one security group, one route table
// named rtb-<vpc id> and two availability zones, <region>a and <region>b.
// Returns the same mock for chaining.
func (f *MeshFixture) Healthy() *ec2.MockClient {
	return f.WithZones(2)
}

// WithZones is Healthy with n availability zones per region.
func (f *MeshFixture) WithZones(n int) *ec2.MockClient {
	f.mock.ListSecurityGroupsFunc = func(_ context.Context, _, networkID string) ([]string, error) {
		return []string{"sg-" + networkID}, nil
	}
	f.mock.ListRouteTablesFunc = func(_ context.Context, _, networkID string) ([]string, error) {
		return []string{"rtb-" + networkID}, nil
	}
	f.mock.ListAvailabilityZonesFunc = func(_ context.Context, region string) ([]ec2.Zone, error) {
		zones := make([]ec2.Zone, 0, n)
		for i := range n {
			zones = append(zones, ec2.Zone{
				Name: region + string(rune('a'+i)),
				ID:   region + "-az" + string(rune('1'+i)),
			})
		}
		return zones, nil
	}
	return f.mock
}

package provisioning

import (
	"time"

	"github.com/imamik/gvpc/internal/addressing"
)

// NetworkRecord identifies a built regional VPC. It carries everything the
// mesh phase needs, so peering never has to query the provider again.
// The zero value means "no network".
type NetworkRecord struct {
	Region    string
	NetworkID string
	CIDR      string
}

// IsZero reports whether the record is absent.
func (r NetworkRecord) IsZero() bool {
	return r.NetworkID == ""
}

// SubnetRecord is a subnet created in a regional VPC.
type SubnetRecord struct {
	SubnetID string
	CIDR     string
	Tier     addressing.Tier
	Zone     addressing.Zone
}

// BuildResult is the outcome of building one region.
//
// Err is set when the VPC itself or its internet gateway could not be set
// up; Record is then zero. StepErrors collects failures of the later setup
// steps (ingress rules, route tables, subnets); Record is still set.
type BuildResult struct {
	Plan       addressing.RegionPlan
	Record     NetworkRecord
	Subnets    []SubnetRecord
	StepErrors []error
	Err        error
	Duration   time.Duration
}

// Partial reports whether the VPC exists but some setup steps failed.
func (r BuildResult) Partial() bool {
	return r.Err == nil && !r.Record.IsZero() && len(r.StepErrors) > 0
}

// PairResult is the outcome of connecting two regional VPCs.
type PairResult struct {
	Requester   NetworkRecord
	Accepter    NetworkRecord
	PeeringID   string
	RoutesAdded int
	Err         error
	Duration    time.Duration
}

// Name returns "<requester>-<accepter>".
func (r PairResult) Name() string {
	return r.Requester.Region + "-" + r.Accepter.Region
}

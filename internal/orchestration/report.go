package orchestration

import (
	"time"

	"github.com/imamik/gvpc/internal/provisioning"
)

// Outcome statuses used in the report.
const (
	StatusSucceeded = "succeeded"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// RunReport is the outcome of one run.
type RunReport struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Proceeded  bool      `json:"proceeded"`

	Regions []RegionOutcome `json:"regions"`
	Pairs   []PairOutcome   `json:"pairs"`

	// Skipped lists regions that did not fit into the address plan.
	Skipped []string `json:"skipped,omitempty"`
	// Unpeered lists partially built regions kept out of the mesh.
	Unpeered []string `json:"unpeered,omitempty"`
}

// RegionOutcome summarizes one regional build.
type RegionOutcome struct {
	Region    string   `json:"region"`
	Offset    int      `json:"offset"`
	CIDR      string   `json:"cidr"`
	NetworkID string   `json:"network_id,omitempty"`
	Subnets   int      `json:"subnets"`
	Status    string   `json:"status"`
	Errors    []string `json:"errors,omitempty"`
	Seconds   float64  `json:"duration_seconds"`
}

// PairOutcome summarizes one peering.
type PairOutcome struct {
	Requester   string  `json:"requester"`
	Accepter    string  `json:"accepter"`
	PeeringID   string  `json:"peering_id,omitempty"`
	RoutesAdded int     `json:"routes_added"`
	Status      string  `json:"status"`
	Error       string  `json:"error,omitempty"`
	Seconds     float64 `json:"duration_seconds"`
}

func newRegionOutcome(r provisioning.BuildResult) RegionOutcome {
	out := RegionOutcome{
		Region:    r.Plan.Region,
		Offset:    r.Plan.Offset,
		CIDR:      r.Plan.CIDR(),
		NetworkID: r.Record.NetworkID,
		Subnets:   len(r.Subnets),
		Status:    buildStatus(r),
		Seconds:   r.Duration.Seconds(),
	}
	if r.Err != nil {
		out.Errors = append(out.Errors, r.Err.Error())
	}
	for _, err := range r.StepErrors {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}

func newPairOutcome(r provisioning.PairResult) PairOutcome {
	out := PairOutcome{
		Requester:   r.Requester.Region,
		Accepter:    r.Accepter.Region,
		PeeringID:   r.PeeringID,
		RoutesAdded: r.RoutesAdded,
		Status:      StatusSucceeded,
		Seconds:     r.Duration.Seconds(),
	}
	if r.Err != nil {
		out.Status = StatusFailed
		out.Error = r.Err.Error()
	}
	return out
}

func buildStatus(r provisioning.BuildResult) string {
	switch {
	case r.Err != nil || r.Record.IsZero():
		return StatusFailed
	case r.Partial():
		return StatusPartial
	default:
		return StatusSucceeded
	}
}

// Counts tallies outcomes by status.
type Counts struct {
	Succeeded int
	Partial   int
	Failed    int
}

// Total returns the number of counted outcomes.
func (c Counts) Total() int {
	return c.Succeeded + c.Partial + c.Failed
}

func (c *Counts) add(status string) {
	switch status {
	case StatusSucceeded:
		c.Succeeded++
	case StatusPartial:
		c.Partial++
	default:
		c.Failed++
	}
}

// RegionCounts tallies the regional builds.
func (r *RunReport) RegionCounts() Counts {
	var c Counts
	for _, o := range r.Regions {
		c.add(o.Status)
	}
	return c
}

// PairCounts tallies the peerings.
func (r *RunReport) PairCounts() Counts {
	var c Counts
	for _, o := range r.Pairs {
		c.add(o.Status)
	}
	return c
}

// Clean reports whether every region and pair fully succeeded and nothing
// was skipped.
func (r *RunReport) Clean() bool {
	rc, pc := r.RegionCounts(), r.PairCounts()
	return rc.Partial == 0 && rc.Failed == 0 && pc.Failed == 0 && len(r.Skipped) == 0
}

// Duration returns the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

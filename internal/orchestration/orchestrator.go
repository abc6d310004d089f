package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/gvpc/internal/addressing"
	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/platform/ec2"
	"github.com/imamik/gvpc/internal/provisioning"
	"github.com/imamik/gvpc/internal/provisioning/mesh"
	"github.com/imamik/gvpc/internal/provisioning/network"
	"github.com/imamik/gvpc/internal/util/async"
)

// Phase names used in logs and metrics.
const (
	PhaseDiscovery = "discovery"
	PhaseNetwork   = "network"
	PhaseMesh      = "mesh"
)

// Orchestrator runs the network phase and the mesh phase.
type Orchestrator struct {
	provider ec2.Provider
	config   *config.Config
	timeouts *config.Timeouts
	observer provisioning.Observer
	metrics  *Metrics
	runID    string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver sets the observer used for the log stream.
func WithObserver(o provisioning.Observer) Option {
	return func(orc *Orchestrator) {
		orc.observer = o
	}
}

// WithTimeouts sets the wait timeouts passed to both phases.
func WithTimeouts(t *config.Timeouts) Option {
	return func(orc *Orchestrator) {
		orc.timeouts = t
	}
}

// WithMetrics records run and provider call metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(orc *Orchestrator) {
		orc.metrics = m
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(orc *Orchestrator) {
		orc.runID = id
	}
}

// New creates an Orchestrator.
func New(provider ec2.Provider, cfg *config.Config, opts ...Option) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	o := &Orchestrator{
		provider: provider,
		config:   cfg,
		timeouts: config.LoadTimeouts(),
		observer: provisioning.NewNopObserver(),
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics != nil {
		o.provider = &instrumentedProvider{next: provider, metrics: o.metrics}
	}
	return o
}

// RunID returns the ID tagged onto every resource of this run.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// RunWithDiscovery lists the enabled regions and runs the mesh over them.
// A declined run returns before any provider call. Failing to list regions
// is fatal: nothing is dispatched and the error is returned.
func (o *Orchestrator) RunWithDiscovery(ctx context.Context, proceed bool) (*RunReport, error) {
	if !proceed {
		return o.declined(), nil
	}

	provisioning.LogPhaseStart(o.observer, PhaseDiscovery)
	regions, err := o.provider.ListRegions(ctx)
	if err != nil {
		provisioning.LogPhaseFailed(o.observer, PhaseDiscovery, err)
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	o.observer.Printf("discovered %d regions", len(regions))

	return o.Run(ctx, regions, true)
}

// Run builds one VPC per region and peers every pair of built VPCs.
//
// Regions are filtered by the configured include and exclude lists, then
// sorted; the sorted position fixes each region's address block. All
// region builds finish before the first peering starts. Individual
// failures are reported, not returned: the error is reserved for runs
// that could not start.
func (o *Orchestrator) Run(ctx context.Context, regions []string, proceed bool) (*RunReport, error) {
	if !proceed {
		return o.declined(), nil
	}

	report := &RunReport{
		RunID:     o.runID,
		StartedAt: time.Now().UTC(),
		Proceeded: true,
	}
	o.observer.Printf("starting run %s", o.runID)

	plans, overflow := addressing.AssignOffsets(o.config.FilterRegions(regions))
	if len(overflow) > 0 {
		report.Skipped = overflow
		provisioning.LogWarning(o.observer, PhaseNetwork, fmt.Sprintf(
			"address plan holds %d regions; skipping %s", addressing.MaxRegions(), strings.Join(overflow, ", ")))
	}

	builds := o.buildNetworks(ctx, plans)
	for _, b := range builds {
		report.Regions = append(report.Regions, newRegionOutcome(b))
	}

	records := o.meshMembers(builds, report)
	pairs := o.connectPairs(ctx, records)
	for _, p := range pairs {
		report.Pairs = append(report.Pairs, newPairOutcome(p))
	}

	report.FinishedAt = time.Now().UTC()
	rc, pc := report.RegionCounts(), report.PairCounts()
	o.observer.Printf("run %s finished in %v: regions %d ok, %d partial, %d failed; peerings %d ok, %d failed",
		o.runID, report.Duration().Round(time.Second),
		rc.Succeeded, rc.Partial, rc.Failed, pc.Succeeded, pc.Failed)

	return report, nil
}

func (o *Orchestrator) declined() *RunReport {
	o.observer.Printf("operation cancelled by the user")
	now := time.Now().UTC()
	return &RunReport{RunID: o.runID, StartedAt: now, FinishedAt: now}
}

// buildNetworks runs the network phase and returns one result per plan, in
// plan order. It returns only after every build has finished.
func (o *Orchestrator) buildNetworks(ctx context.Context, plans []addressing.RegionPlan) []provisioning.BuildResult {
	start := time.Now()
	provisioning.LogPhaseStart(o.observer, PhaseNetwork)

	builder := network.NewBuilder(o.provider,
		network.WithObserver(o.observer),
		network.WithTimeouts(o.timeouts),
		network.WithRunID(o.runID),
	)

	var done atomic.Int32
	tasks := make([]async.Task[provisioning.BuildResult], len(plans))
	for i, plan := range plans {
		tasks[i] = async.Task[provisioning.BuildResult]{
			Name: plan.Region,
			Func: func(ctx context.Context) (provisioning.BuildResult, error) {
				defer func() { o.observer.Progress(PhaseNetwork, int(done.Add(1)), len(plans)) }()
				r := builder.Build(ctx, plan)
				return r, r.Err
			},
		}
	}

	results := async.Collect(ctx, o.config.Concurrency.Regions, tasks)

	builds := make([]provisioning.BuildResult, len(results))
	for i, res := range results {
		b := res.Value
		if !res.OK() && b.Err == nil {
			// panicked before producing a result
			b = provisioning.BuildResult{Plan: plans[i], Err: res.Err, Duration: res.Duration}
			provisioning.LogResourceFailed(o.observer, PhaseNetwork, "build "+plans[i].Region, res.Err)
		}
		builds[i] = b
		if o.metrics != nil {
			o.metrics.recordBuild(b)
		}
	}

	o.observePhase(PhaseNetwork, time.Since(start))
	return builds
}

// meshMembers selects the records that join the mesh.
func (o *Orchestrator) meshMembers(builds []provisioning.BuildResult, report *RunReport) []provisioning.NetworkRecord {
	var records []provisioning.NetworkRecord
	for _, b := range builds {
		if b.Err != nil || b.Record.IsZero() {
			continue
		}
		if b.Partial() && !o.config.Mesh.PeerPartial() {
			report.Unpeered = append(report.Unpeered, b.Record.Region)
			provisioning.LogWarning(o.observer, PhaseMesh, fmt.Sprintf(
				"%s is partially built and stays out of the mesh", b.Record.Region))
			continue
		}
		records = append(records, b.Record)
	}
	return records
}

// connectPairs runs the mesh phase over every pair of records.
func (o *Orchestrator) connectPairs(ctx context.Context, records []provisioning.NetworkRecord) []provisioning.PairResult {
	pairs := mesh.Pairs(records)
	if len(pairs) == 0 {
		o.observer.Printf("fewer than two networks built, nothing to peer")
		return nil
	}

	start := time.Now()
	provisioning.LogPhaseStart(o.observer, PhaseMesh)

	connector := mesh.NewConnector(o.provider,
		mesh.WithObserver(o.observer),
		mesh.WithTimeouts(o.timeouts),
		mesh.WithRunID(o.runID),
		mesh.WithLocks(mesh.NewNetworkLocks()),
	)

	var done atomic.Int32
	tasks := make([]async.Task[provisioning.PairResult], len(pairs))
	for i, pair := range pairs {
		tasks[i] = async.Task[provisioning.PairResult]{
			Name: pair.Name(),
			Func: func(ctx context.Context) (provisioning.PairResult, error) {
				defer func() { o.observer.Progress(PhaseMesh, int(done.Add(1)), len(pairs)) }()
				r := connector.Connect(ctx, pair.A, pair.B)
				return r, r.Err
			},
		}
	}

	results := async.Collect(ctx, o.config.Concurrency.Pairs, tasks)

	out := make([]provisioning.PairResult, len(results))
	for i, res := range results {
		p := res.Value
		if !res.OK() && p.Err == nil {
			p = provisioning.PairResult{Requester: pairs[i].A, Accepter: pairs[i].B, Err: res.Err, Duration: res.Duration}
			provisioning.LogResourceFailed(o.observer, PhaseMesh, "connect "+pairs[i].Name(), res.Err)
		}
		out[i] = p
		if o.metrics != nil {
			o.metrics.recordPair(p)
		}
	}

	o.observePhase(PhaseMesh, time.Since(start))
	return out
}

func (o *Orchestrator) observePhase(phase string, d time.Duration) {
	provisioning.LogPhaseComplete(o.observer, phase, d)
	if o.metrics != nil {
		o.metrics.observePhase(phase, d)
	}
}

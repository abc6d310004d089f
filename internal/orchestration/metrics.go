package orchestration

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/gvpc/internal/platform/ec2"
	"github.com/imamik/gvpc/internal/provisioning"
)

const metricsNamespace = "gvpc"

// Metrics holds the run metrics in their own registry, so that one run can
// be written to a node-exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	regionBuilds  *prometheus.CounterVec
	peerings      *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	providerCalls *prometheus.CounterVec
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		regionBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "region_builds_total",
				Help:      "Regional network builds by result",
			},
			[]string{"result"},
		),
		peerings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "peerings_total",
				Help:      "Peering connections by result",
			},
			[]string{"result"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of a provisioning phase in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
			[]string{"phase"},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "provider_calls_total",
				Help:      "Cloud provider API calls by operation and result",
			},
			[]string{"operation", "result"},
		),
	}

	m.registry.MustRegister(m.regionBuilds, m.peerings, m.phaseDuration, m.providerCalls)
	return m
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) recordBuild(r provisioning.BuildResult) {
	m.regionBuilds.WithLabelValues(buildStatus(r)).Inc()
}

func (m *Metrics) recordPair(r provisioning.PairResult) {
	result := StatusSucceeded
	if r.Err != nil {
		result = StatusFailed
	}
	m.peerings.WithLabelValues(result).Inc()
}

func (m *Metrics) observePhase(phase string, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *Metrics) recordCall(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.providerCalls.WithLabelValues(operation, result).Inc()
}

// instrumentedProvider counts every provider call.
type instrumentedProvider struct {
	next    ec2.Provider
	metrics *Metrics
}

var _ ec2.Provider = (*instrumentedProvider)(nil)

func (p *instrumentedProvider) ListRegions(ctx context.Context) ([]string, error) {
	regions, err := p.next.ListRegions(ctx)
	p.metrics.recordCall("ListRegions", err)
	return regions, err
}

func (p *instrumentedProvider) CreateNetwork(ctx context.Context, region, cidr string, tags map[string]string) (string, error) {
	id, err := p.next.CreateNetwork(ctx, region, cidr, tags)
	p.metrics.recordCall("CreateNetwork", err)
	return id, err
}

func (p *instrumentedProvider) WaitUntilNetworkAvailable(ctx context.Context, region, networkID string, timeout time.Duration) error {
	err := p.next.WaitUntilNetworkAvailable(ctx, region, networkID, timeout)
	p.metrics.recordCall("WaitUntilNetworkAvailable", err)
	return err
}

func (p *instrumentedProvider) CreateExternalGateway(ctx context.Context, region string, tags map[string]string) (string, error) {
	id, err := p.next.CreateExternalGateway(ctx, region, tags)
	p.metrics.recordCall("CreateExternalGateway", err)
	return id, err
}

func (p *instrumentedProvider) AttachGateway(ctx context.Context, region, networkID, gatewayID string) error {
	err := p.next.AttachGateway(ctx, region, networkID, gatewayID)
	p.metrics.recordCall("AttachGateway", err)
	return err
}

func (p *instrumentedProvider) ListSecurityGroups(ctx context.Context, region, networkID string) ([]string, error) {
	ids, err := p.next.ListSecurityGroups(ctx, region, networkID)
	p.metrics.recordCall("ListSecurityGroups", err)
	return ids, err
}

func (p *instrumentedProvider) AuthorizeIngress(ctx context.Context, region, groupID string, rule ec2.IngressRule) error {
	err := p.next.AuthorizeIngress(ctx, region, groupID, rule)
	p.metrics.recordCall("AuthorizeIngress", err)
	return err
}

func (p *instrumentedProvider) ListRouteTables(ctx context.Context, region, networkID string) ([]string, error) {
	ids, err := p.next.ListRouteTables(ctx, region, networkID)
	p.metrics.recordCall("ListRouteTables", err)
	return ids, err
}

func (p *instrumentedProvider) CreateRoute(ctx context.Context, region, routeTableID, destinationCIDR string, target ec2.RouteTarget) error {
	err := p.next.CreateRoute(ctx, region, routeTableID, destinationCIDR, target)
	p.metrics.recordCall("CreateRoute", err)
	return err
}

func (p *instrumentedProvider) TagResource(ctx context.Context, region, resourceID string, tags map[string]string) error {
	err := p.next.TagResource(ctx, region, resourceID, tags)
	p.metrics.recordCall("TagResource", err)
	return err
}

func (p *instrumentedProvider) ListAvailabilityZones(ctx context.Context, region string) ([]ec2.Zone, error) {
	zones, err := p.next.ListAvailabilityZones(ctx, region)
	p.metrics.recordCall("ListAvailabilityZones", err)
	return zones, err
}

func (p *instrumentedProvider) CreateSubnet(ctx context.Context, region, networkID, cidr, zone string, tags map[string]string) (string, error) {
	id, err := p.next.CreateSubnet(ctx, region, networkID, cidr, zone, tags)
	p.metrics.recordCall("CreateSubnet", err)
	return id, err
}

func (p *instrumentedProvider) RequestPeering(ctx context.Context, region, networkID, peerNetworkID, peerRegion string, tags map[string]string) (string, error) {
	id, err := p.next.RequestPeering(ctx, region, networkID, peerNetworkID, peerRegion, tags)
	p.metrics.recordCall("RequestPeering", err)
	return id, err
}

func (p *instrumentedProvider) WaitUntilPeeringVisible(ctx context.Context, region, peeringID string, timeout time.Duration) error {
	err := p.next.WaitUntilPeeringVisible(ctx, region, peeringID, timeout)
	p.metrics.recordCall("WaitUntilPeeringVisible", err)
	return err
}

func (p *instrumentedProvider) AcceptPeering(ctx context.Context, region, peeringID string) error {
	err := p.next.AcceptPeering(ctx, region, peeringID)
	p.metrics.recordCall("AcceptPeering", err)
	return err
}

package testing

import (
	"slices"

	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/util/ptr"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with all defaults applied.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default()}
}

// WithInclude restricts the run to the given regions.
func (b *ConfigBuilder) WithInclude(regions ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Regions.Include = regions
	return newBuilder
}

// WithExclude removes the given regions from the run.
func (b *ConfigBuilder) WithExclude(regions ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Regions.Exclude = regions
	return newBuilder
}

// WithConcurrency sets both worker pool limits.
func (b *ConfigBuilder) WithConcurrency(regions, pairs int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Concurrency = config.ConcurrencyConfig{Regions: regions, Pairs: pairs}
	return newBuilder
}

// WithPeerPartial sets mesh.peer_partial_regions.
func (b *ConfigBuilder) WithPeerPartial(peer bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Mesh.PeerPartialRegions = ptr.To(peer)
	return newBuilder
}

// WithReportBucket enables the report upload.
func (b *ConfigBuilder) WithReportBucket(bucket string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Report.Bucket = bucket
	return newBuilder
}

// WithMetricsTextfile enables the metrics export.
func (b *ConfigBuilder) WithMetricsTextfile(path string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Metrics.Textfile = path
	return newBuilder
}

// Build returns a copy of the configuration. It panics when the
// configuration would be rejected by config.Load.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	if err := cfg.Validate(); err != nil {
		panic("testing: invalid config: " + err.Error())
	}
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Regions.Include = slices.Clone(b.cfg.Regions.Include)
	cfg.Regions.Exclude = slices.Clone(b.cfg.Regions.Exclude)
	if b.cfg.Mesh.PeerPartialRegions != nil {
		cfg.Mesh.PeerPartialRegions = ptr.To(*b.cfg.Mesh.PeerPartialRegions)
	}
	return &ConfigBuilder{cfg: cfg}
}

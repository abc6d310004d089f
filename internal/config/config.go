package config

import (
	"slices"
	"sort"

	"github.com/imamik/gvpc/internal/util/ptr"
)

// Default values applied by Load when a field is not set.
const (
	DefaultRegionConcurrency = 8
	DefaultPairConcurrency   = 16
	DefaultLogFile           = "gvpc.log"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultHomeRegion        = "us-east-1"
	DefaultReportPrefix      = "gvpc-runs"
)

// Config is the complete gvpc configuration.
type Config struct {
	Regions     RegionsConfig     `yaml:"regions"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Mesh        MeshConfig        `yaml:"mesh"`
	Log         LogConfig         `yaml:"log"`
	Report      ReportConfig      `yaml:"report"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	AWS         AWSConfig         `yaml:"aws"`
}

// RegionsConfig narrows the set of regions returned by the provider.
// An empty Include list means all regions.
type RegionsConfig struct {
	Include []string `yaml:"include" validate:"dive,required"`
	Exclude []string `yaml:"exclude" validate:"dive,required"`
}

// ConcurrencyConfig bounds the two worker pools.
type ConcurrencyConfig struct {
	Regions int `yaml:"regions" validate:"gte=1,lte=64"`
	Pairs   int `yaml:"pairs" validate:"gte=1,lte=256"`
}

// MeshConfig controls which built regions join the mesh.
type MeshConfig struct {
	// PeerPartialRegions peers regions whose VPC was created but whose
	// security group, route table or subnet setup failed. Default true.
	PeerPartialRegions *bool `yaml:"peer_partial_regions"`
}

// PeerPartial returns the effective PeerPartialRegions value.
func (m MeshConfig) PeerPartial() bool {
	return ptr.Deref(m.PeerPartialRegions, true)
}

// LogConfig configures the persistent log stream.
type LogConfig struct {
	File   string `yaml:"file"`
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// ReportConfig configures the optional upload of the run report.
// The report is only uploaded when Bucket is set.
type ReportConfig struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint" validate:"omitempty,url"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// AWSConfig selects credentials and the region used for account-wide calls.
type AWSConfig struct {
	Profile    string `yaml:"profile"`
	HomeRegion string `yaml:"home_region" validate:"required"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero-valued fields.
func (c *Config) applyDefaults() {
	if c.Concurrency.Regions == 0 {
		c.Concurrency.Regions = DefaultRegionConcurrency
	}
	if c.Concurrency.Pairs == 0 {
		c.Concurrency.Pairs = DefaultPairConcurrency
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.AWS.HomeRegion == "" {
		c.AWS.HomeRegion = DefaultHomeRegion
	}
	if c.Report.Prefix == "" {
		c.Report.Prefix = DefaultReportPrefix
	}
	if c.Report.Region == "" {
		c.Report.Region = c.AWS.HomeRegion
	}
}

// FilterRegions applies the include and exclude lists and returns the
// remaining regions sorted.
func (c *Config) FilterRegions(regions []string) []string {
	var out []string
	for _, r := range regions {
		if len(c.Regions.Include) > 0 && !slices.Contains(c.Regions.Include, r) {
			continue
		}
		if slices.Contains(c.Regions.Exclude, r) {
			continue
		}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

package handlers

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/imamik/gvpc/internal/addressing"
	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/platform/ec2"
	"github.com/imamik/gvpc/internal/provisioning/network"
)

// Output formats of the plan command.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// PlanOptions holds the flags of the plan command.
type PlanOptions struct {
	ConfigPath string
	Offline    bool
	Regions    []string
	Zones      int
	Output     string
}

type planDocument struct {
	Regions []planRegion `yaml:"regions"`
	Skipped []string     `yaml:"skipped,omitempty"`
}

type planRegion struct {
	Region  string       `yaml:"region"`
	Offset  int          `yaml:"offset"`
	CIDR    string       `yaml:"cidr"`
	Subnets []planSubnet `yaml:"subnets"`
}

type planSubnet struct {
	Zone   string `yaml:"zone"`
	ZoneID string `yaml:"zone_id,omitempty"`
	Tier   string `yaml:"tier"`
	CIDR   string `yaml:"cidr"`
}

// zoneSource returns the availability zones of a region.
type zoneSource func(ctx context.Context, region string) ([]ec2.Zone, error)

// Plan prints the address plan. It never makes a mutating call.
func Plan(ctx context.Context, opts PlanOptions) error {
	if opts.Output != OutputTable && opts.Output != OutputYAML {
		return fmt.Errorf("unknown output format %q: use %s or %s", opts.Output, OutputTable, OutputYAML)
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	var (
		regions []string
		zones   zoneSource
	)
	if opts.Offline {
		if len(opts.Regions) == 0 {
			return errors.New("--offline needs --regions")
		}
		if opts.Zones < 1 || opts.Zones > addressing.MaxZonesPerRegion {
			return fmt.Errorf("--zones must be between 1 and %d, got %d", addressing.MaxZonesPerRegion, opts.Zones)
		}
		regions = opts.Regions
		zones = offlineZones(opts.Zones)
	} else {
		provider, err := newProvider(ctx, cfg)
		if err != nil {
			return err
		}
		regions, err = provider.ListRegions(ctx)
		if err != nil {
			return fmt.Errorf("failed to list regions: %w", err)
		}
		zones = provider.ListAvailabilityZones
	}

	doc, err := buildPlan(ctx, cfg, regions, zones)
	if err != nil {
		return err
	}

	if opts.Output == OutputYAML {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return enc.Close()
	}
	fmt.Fprint(stdout, renderPlan(doc))
	return nil
}

// buildPlan computes the plan exactly the way apply does: filter, sort,
// assign offsets, select zones, lay out tiers.
func buildPlan(ctx context.Context, cfg *config.Config, regions []string, zones zoneSource) (*planDocument, error) {
	plans, overflow := addressing.AssignOffsets(cfg.FilterRegions(regions))
	doc := &planDocument{Skipped: overflow}

	for _, p := range plans {
		available, err := zones(ctx, p.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to list availability zones of %s: %w", p.Region, err)
		}
		layout, err := addressing.ZoneLayout(p.Offset, network.SelectZones(available))
		if err != nil {
			return nil, err
		}

		region := planRegion{Region: p.Region, Offset: p.Offset, CIDR: p.CIDR()}
		for _, sp := range layout {
			region.Subnets = append(region.Subnets, planSubnet{
				Zone:   sp.Zone.Name,
				ZoneID: sp.Zone.ID,
				Tier:   sp.Tier.String(),
				CIDR:   sp.CIDR,
			})
		}
		doc.Regions = append(doc.Regions, region)
	}
	return doc, nil
}

// offlineZones names n zones per region the way AWS does: <region>a, <region>b, ...
func offlineZones(n int) zoneSource {
	return func(_ context.Context, region string) ([]ec2.Zone, error) {
		zones := make([]ec2.Zone, 0, n)
		for i := range n {
			zones = append(zones, ec2.Zone{Name: fmt.Sprintf("%s%c", region, 'a'+i)})
		}
		return zones, nil
	}
}

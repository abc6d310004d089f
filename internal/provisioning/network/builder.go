package network

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/imamik/gvpc/internal/addressing"
	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/platform/ec2"
	"github.com/imamik/gvpc/internal/provisioning"
	"github.com/imamik/gvpc/internal/util/naming"
	"github.com/imamik/gvpc/internal/util/tags"
)

const phase = "network"

// Provider is the subset of ec2.Provider needed to build a regional network.
type Provider interface {
	ec2.NetworkManager
	ec2.GatewayManager
	ec2.SecurityGroupManager
	ec2.RouteManager
	ec2.ResourceTagger
	ec2.SubnetManager
}

// Builder creates one VPC per region with its gateway, ingress rule,
// default route and tier subnets.
type Builder struct {
	provider Provider
	observer provisioning.Observer
	timeouts *config.Timeouts
	runID    string
}

// Option configures a Builder.
type Option func(*Builder)

// WithObserver sets the observer used for the log stream.
func WithObserver(o provisioning.Observer) Option {
	return func(b *Builder) {
		b.observer = o
	}
}

// WithTimeouts sets the wait timeouts.
func WithTimeouts(t *config.Timeouts) Option {
	return func(b *Builder) {
		b.timeouts = t
	}
}

// WithRunID tags every created resource with the run ID.
func WithRunID(id string) Option {
	return func(b *Builder) {
		b.runID = id
	}
}

// NewBuilder creates a Builder.
func NewBuilder(p Provider, opts ...Option) *Builder {
	b := &Builder{
		provider: p,
		observer: provisioning.NewNopObserver(),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build provisions the network of one region.
//
// Failures creating the VPC or its internet gateway set Err and leave the
// record empty, so the region stays out of the mesh. Failures of the later
// steps are collected in StepErrors and the record is kept. Nothing is
// rolled back.
func (b *Builder) Build(ctx context.Context, plan addressing.RegionPlan) (result provisioning.BuildResult) {
	start := time.Now()
	obs := b.observer.WithFields(map[string]string{"region": plan.Region})
	result.Plan = plan

	defer func() {
		result.Duration = time.Since(start)
	}()

	record, gatewayID, err := b.createNetwork(ctx, obs, plan)
	if err != nil {
		provisioning.LogResourceFailed(obs, phase, "build network", err)
		result.Err = err
		return result
	}

	result.Record = record

	if err := b.authorizeIngress(ctx, obs, record); err != nil {
		result.StepErrors = append(result.StepErrors, err)
	}
	if err := b.configureRoutes(ctx, obs, record, gatewayID); err != nil {
		result.StepErrors = append(result.StepErrors, err)
	}
	subnets, err := b.createSubnets(ctx, obs, plan, record)
	result.Subnets = subnets
	if err != nil {
		result.StepErrors = append(result.StepErrors, err)
	}

	if result.Partial() {
		provisioning.LogWarning(obs, phase, fmt.Sprintf(
			"%s built with %d failed step(s); created resources are kept, nothing is rolled back",
			record.NetworkID, len(result.StepErrors)))
	}
	return result
}

// createNetwork runs the structural steps: VPC, availability wait, gateway.
func (b *Builder) createNetwork(ctx context.Context, obs provisioning.Observer, plan addressing.RegionPlan) (provisioning.NetworkRecord, string, error) {
	cidr := plan.CIDR()

	provisioning.LogResourceCreating(obs, phase, "vpc", cidr)
	vpcTags := b.tags(naming.VPC(plan.Region)).WithRegion(plan.Region).Build()
	networkID, err := b.provider.CreateNetwork(ctx, plan.Region, cidr, vpcTags)
	if err != nil {
		return provisioning.NetworkRecord{}, "", err
	}

	if err := b.provider.WaitUntilNetworkAvailable(ctx, plan.Region, networkID, b.timeouts.NetworkAvailable); err != nil {
		b.warnLeftover(obs, networkID)
		return provisioning.NetworkRecord{}, "", err
	}
	provisioning.LogResourceCreated(obs, phase, "vpc", networkID, map[string]string{"cidr": cidr})

	gwTags := b.tags(naming.InternetGateway(plan.Region)).WithRegion(plan.Region).Build()
	gatewayID, err := b.provider.CreateExternalGateway(ctx, plan.Region, gwTags)
	if err != nil {
		b.warnLeftover(obs, networkID)
		return provisioning.NetworkRecord{}, "", err
	}
	if err := b.provider.AttachGateway(ctx, plan.Region, networkID, gatewayID); err != nil {
		b.warnLeftover(obs, networkID+", "+gatewayID)
		return provisioning.NetworkRecord{}, "", err
	}
	provisioning.LogResourceCreated(obs, phase, "internet-gateway", gatewayID, map[string]string{"vpc": networkID})

	return provisioning.NetworkRecord{
		Region:    plan.Region,
		NetworkID: networkID,
		CIDR:      cidr,
	}, gatewayID, nil
}

// authorizeIngress allows ICMP from the mesh range on every security group.
func (b *Builder) authorizeIngress(ctx context.Context, obs provisioning.Observer, record provisioning.NetworkRecord) error {
	groups, err := b.provider.ListSecurityGroups(ctx, record.Region, record.NetworkID)
	if err != nil {
		provisioning.LogResourceFailed(obs, phase, "list security groups", err)
		return err
	}

	var errs stepErrors
	rule := ec2.ICMPFromMesh()
	for _, groupID := range groups {
		if err := b.provider.AuthorizeIngress(ctx, record.Region, groupID, rule); err != nil {
			provisioning.LogResourceFailed(obs, phase, "authorize ingress on "+groupID, err)
			errs.add(err)
			continue
		}
		provisioning.LogResourceUpdated(obs, phase, "security-group", groupID, "icmp from "+rule.CIDR+" allowed")
	}
	return errs.join("authorize ingress")
}

// configureRoutes names every route table and adds the default route to
// the internet gateway.
func (b *Builder) configureRoutes(ctx context.Context, obs provisioning.Observer, record provisioning.NetworkRecord, gatewayID string) error {
	tables, err := b.provider.ListRouteTables(ctx, record.Region, record.NetworkID)
	if err != nil {
		provisioning.LogResourceFailed(obs, phase, "list route tables", err)
		return err
	}

	var errs stepErrors
	name := b.tags(naming.RouteTable(record.Region)).WithRegion(record.Region).Build()
	for _, tableID := range tables {
		if err := b.provider.TagResource(ctx, record.Region, tableID, name); err != nil {
			provisioning.LogResourceFailed(obs, phase, "tag route table "+tableID, err)
			errs.add(err)
			continue
		}
		if err := b.provider.CreateRoute(ctx, record.Region, tableID, DefaultRoute, ec2.ViaGateway(gatewayID)); err != nil {
			provisioning.LogResourceFailed(obs, phase, "default route on "+tableID, err)
			errs.add(err)
			continue
		}
		provisioning.LogResourceUpdated(obs, phase, "route-table", tableID, DefaultRoute+" via "+gatewayID)
	}
	return errs.join("configure routes")
}

// createSubnets lays out the four tiers in every availability zone.
func (b *Builder) createSubnets(ctx context.Context, obs provisioning.Observer, plan addressing.RegionPlan, record provisioning.NetworkRecord) ([]provisioning.SubnetRecord, error) {
	available, err := b.provider.ListAvailabilityZones(ctx, record.Region)
	if err != nil {
		provisioning.LogResourceFailed(obs, phase, "list availability zones", err)
		return nil, err
	}

	zones := SelectZones(available)
	if len(available) > len(zones) {
		provisioning.LogWarning(obs, phase, fmt.Sprintf(
			"region has %d availability zones, only the first %d get subnets",
			len(available), len(zones)))
	}

	layout, err := addressing.ZoneLayout(plan.Offset, zones)
	if err != nil {
		return nil, err
	}

	var (
		subnets []provisioning.SubnetRecord
		errs    stepErrors
	)
	for _, sp := range layout {
		subnetTags := b.tags(naming.Subnet(sp.Zone.ID, sp.Tier.String())).
			WithRegion(record.Region).
			WithTier(sp.Tier.String()).
			WithZone(sp.Zone.ID).
			Build()

		id, err := b.provider.CreateSubnet(ctx, record.Region, record.NetworkID, sp.CIDR, sp.Zone.Name, subnetTags)
		if err != nil {
			provisioning.LogResourceFailed(obs, phase, fmt.Sprintf("create %s subnet in %s", sp.Tier, sp.Zone.Name), err)
			errs.add(err)
			continue
		}
		provisioning.LogResourceCreated(obs, phase, "subnet", id, map[string]string{
			"cidr": sp.CIDR,
			"tier": sp.Tier.String(),
			"zone": sp.Zone.Name,
		})
		subnets = append(subnets, provisioning.SubnetRecord{
			SubnetID: id,
			CIDR:     sp.CIDR,
			Tier:     sp.Tier,
			Zone:     sp.Zone,
		})
	}
	return subnets, errs.join("create subnets")
}

// SelectZones sorts zones by name and keeps at most
// addressing.MaxZonesPerRegion of them.
func SelectZones(available []ec2.Zone) []addressing.Zone {
	zones := make([]addressing.Zone, 0, len(available))
	for _, z := range available {
		zones = append(zones, addressing.Zone{Name: z.Name, ID: z.ID})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	if len(zones) > addressing.MaxZonesPerRegion {
		zones = zones[:addressing.MaxZonesPerRegion]
	}
	return zones
}

func (b *Builder) tags(name string) *tags.TagBuilder {
	return tags.NewTagBuilder(name).WithRunID(b.runID)
}

func (b *Builder) warnLeftover(obs provisioning.Observer, resources string) {
	provisioning.LogWarning(obs, phase, fmt.Sprintf(
		"region excluded from the mesh; %s remain in the account and are not rolled back", resources))
}

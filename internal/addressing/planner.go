package addressing

import (
	"errors"
	"fmt"
	"net/netip"
	"sort"
)

// Tier identifies one of the four subnet tiers of a zone.
type Tier string

// Subnet tiers in their fixed enumeration order.
const (
	TierPublic  Tier = "public"
	TierPrivate Tier = "private"
	TierData    Tier = "data"
	TierAdmin   Tier = "admin"
)

// Third-octet starting points of each tier.
const (
	PublicStart  = 11
	PrivateStart = 51
	DataStart    = 101
	AdminStart   = 201
)

const (
	// SubnetStride is the third-octet distance between two zones of the same tier.
	SubnetStride = 4
	// SubnetWidth is the prefix length of every tier subnet.
	SubnetWidth = 22
	// TopLevelWidth is the prefix length of a region's block.
	TopLevelWidth = 16

	// MaxZonesPerRegion is the number of zones the tier layout can hold
	// before the public tier runs into the private tier. It is checked
	// against the constants above at package initialization.
	MaxZonesPerRegion = 10

	// MaxOffset is the highest usable second octet.
	MaxOffset = 255
)

// ErrZoneCapacityExceeded is returned when a zone index does not fit the tier layout.
var ErrZoneCapacityExceeded = errors.New("zone index exceeds tier capacity")

// Tiers returns the tiers in their fixed enumeration order.
func Tiers() []Tier {
	return []Tier{TierPublic, TierPrivate, TierData, TierAdmin}
}

// Start returns the third-octet starting point of the tier, or -1 for an unknown tier.
func (t Tier) Start() int {
	switch t {
	case TierPublic:
		return PublicStart
	case TierPrivate:
		return PrivateStart
	case TierData:
		return DataStart
	case TierAdmin:
		return AdminStart
	default:
		return -1
	}
}

func (t Tier) String() string {
	return string(t)
}

// PlanTopLevel returns the region block 10.<offset>.0.0/16.
// The caller guarantees offset is in [0, MaxOffset].
func PlanTopLevel(offset int) string {
	return fmt.Sprintf("10.%d.0.0/%d", offset, TopLevelWidth)
}

// PlanSubnet returns 10.<offset>.<zoneIndex*stride+tierStart>.0/<width>.
// It performs no validation.
func PlanSubnet(offset, tierStart, zoneIndex, stride, width int) string {
	return fmt.Sprintf("10.%d.%d.0/%d", offset, zoneIndex*stride+tierStart, width)
}

// TierSubnet returns the block of a tier in the given zone using the
// package layout constants.
func TierSubnet(offset int, tier Tier, zoneIndex int) (string, error) {
	start := tier.Start()
	if start < 0 {
		return "", fmt.Errorf("unknown tier %q", tier)
	}
	if zoneIndex < 0 || zoneIndex >= MaxZonesPerRegion {
		return "", fmt.Errorf("%w: zone index %d, capacity %d", ErrZoneCapacityExceeded, zoneIndex, MaxZonesPerRegion)
	}
	return PlanSubnet(offset, start, zoneIndex, SubnetStride, SubnetWidth), nil
}

// Zone is an availability zone as reported by the provider.
type Zone struct {
	Name string // e.g. us-east-1a
	ID   string // e.g. use1-az1
}

// SubnetPlan is the planned block of one tier in one zone.
type SubnetPlan struct {
	Tier      Tier
	ZoneIndex int
	Zone      Zone
	CIDR      string
}

// ZoneLayout plans all tier subnets for the given zones, zone-major and in
// tier order. Zones are indexed in the order given.
func ZoneLayout(offset int, zones []Zone) ([]SubnetPlan, error) {
	if len(zones) > MaxZonesPerRegion {
		return nil, fmt.Errorf("%w: %d zones, capacity %d", ErrZoneCapacityExceeded, len(zones), MaxZonesPerRegion)
	}

	plans := make([]SubnetPlan, 0, len(zones)*len(Tiers()))
	for i, zone := range zones {
		for _, tier := range Tiers() {
			cidr, err := TierSubnet(offset, tier, i)
			if err != nil {
				return nil, err
			}
			plans = append(plans, SubnetPlan{
				Tier:      tier,
				ZoneIndex: i,
				Zone:      zone,
				CIDR:      cidr,
			})
		}
	}
	return plans, nil
}

// Prefix parses a planned block and masks it to its network boundary.
// Tier blocks whose third octet is not aligned to the prefix length are
// normalized the same way the provider applies them.
func Prefix(cidr string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	return p.Masked(), nil
}

// Overlaps reports whether two planned blocks share any address.
func Overlaps(a, b string) (bool, error) {
	pa, err := Prefix(a)
	if err != nil {
		return false, err
	}
	pb, err := Prefix(b)
	if err != nil {
		return false, err
	}
	return pa.Overlaps(pb), nil
}

// Contains reports whether inner lies entirely within outer.
func Contains(outer, inner string) (bool, error) {
	po, err := Prefix(outer)
	if err != nil {
		return false, err
	}
	pi, err := Prefix(inner)
	if err != nil {
		return false, err
	}
	return pi.Bits() >= po.Bits() && po.Contains(pi.Addr()), nil
}

// ValidateLayout checks that the tier constants leave MaxZonesPerRegion
// zones with pairwise disjoint tier blocks inside a region's block.
func ValidateLayout() error {
	blockSize := 1 << (24 - SubnetWidth)
	if SubnetStride < blockSize {
		return fmt.Errorf("stride %d is smaller than a /%d block", SubnetStride, SubnetWidth)
	}

	top := PlanTopLevel(MaxOffset)
	var blocks []string
	for _, tier := range Tiers() {
		for z := range MaxZonesPerRegion {
			cidr, err := TierSubnet(MaxOffset, tier, z)
			if err != nil {
				return err
			}
			inside, err := Contains(top, cidr)
			if err != nil {
				return fmt.Errorf("tier %s zone %d: %w", tier, z, err)
			}
			if !inside {
				return fmt.Errorf("tier %s zone %d: %s is outside %s", tier, z, cidr, top)
			}
			blocks = append(blocks, cidr)
		}
	}

	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			overlap, err := Overlaps(blocks[i], blocks[j])
			if err != nil {
				return err
			}
			if overlap {
				return fmt.Errorf("%s overlaps %s", blocks[i], blocks[j])
			}
		}
	}
	return nil
}

func init() {
	if err := ValidateLayout(); err != nil {
		panic("addressing: invalid subnet layout: " + err.Error())
	}
}

// Region offsets are assigned from RegionOffsetBase upwards so that they
// never collide with the 1..100 range kept for single-region/manual VPCs.
const (
	RegionOffsetBase   = 101
	RegionOffsetStride = 4
)

// RegionPlan is the address assignment of one region in a run.
type RegionPlan struct {
	Region string
	Index  int
	Offset int
}

// CIDR returns the region's top-level block.
func (p RegionPlan) CIDR() string {
	return PlanTopLevel(p.Offset)
}

// OffsetFor returns the offset assigned to the region at position index of
// the sorted region list.
func OffsetFor(index int) int {
	return RegionOffsetBase + index*RegionOffsetStride
}

// MaxRegions is the number of regions that fit below MaxOffset.
func MaxRegions() int {
	return (MaxOffset-RegionOffsetBase)/RegionOffsetStride + 1
}

// AssignOffsets sorts and de-duplicates regions and assigns each a unique
// offset by its position. The assignment depends only on the set of regions.
// Regions whose offset would exceed MaxOffset are returned as overflow and
// get no plan.
func AssignOffsets(regions []string) (plans []RegionPlan, overflow []string) {
	sorted := make([]string, 0, len(regions))
	seen := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		sorted = append(sorted, r)
	}
	sort.Strings(sorted)

	for i, region := range sorted {
		offset := OffsetFor(i)
		if offset > MaxOffset {
			overflow = append(overflow, region)
			continue
		}
		plans = append(plans, RegionPlan{Region: region, Index: i, Offset: offset})
	}
	return plans, overflow
}

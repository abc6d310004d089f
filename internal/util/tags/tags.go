package tags

// Standard tag keys for EC2 resources.
const (
	// KeyName is the AWS console display name.
	KeyName = "Name"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "gvpc:managed-by"

	// KeyRunID identifies the apply run that created the resource
	KeyRunID = "gvpc:run-id"

	// KeyRegion is the home region of the resource's VPC
	KeyRegion = "gvpc:region"

	// KeyTier is the subnet tier (public, private, data, admin)
	KeyTier = "gvpc:tier"

	// KeyZone is the availability zone ID of a subnet
	KeyZone = "gvpc:zone"

	// KeyPeer is the peer region of a peering connection
	KeyPeer = "gvpc:peer"
)

// ManagedByGVPC is the value of KeyManagedBy on every resource.
const ManagedByGVPC = "gvpc"

// TagBuilder provides a fluent interface for building EC2 resource tags.
type TagBuilder struct {
	tags map[string]string
}

// NewTagBuilder creates a builder with the Name and managed-by tags pre-set.
func NewTagBuilder(name string) *TagBuilder {
	return &TagBuilder{
		tags: map[string]string{
			KeyName:      name,
			KeyManagedBy: ManagedByGVPC,
		},
	}
}

// WithRunID adds the run ID tag when runID is non-empty.
func (tb *TagBuilder) WithRunID(runID string) *TagBuilder {
	if runID != "" {
		tb.tags[KeyRunID] = runID
	}
	return tb
}

// WithRegion adds the region tag.
func (tb *TagBuilder) WithRegion(region string) *TagBuilder {
	tb.tags[KeyRegion] = region
	return tb
}

// WithTier adds the subnet tier tag.
func (tb *TagBuilder) WithTier(tier string) *TagBuilder {
	tb.tags[KeyTier] = tier
	return tb
}

// WithZone adds the availability zone tag.
func (tb *TagBuilder) WithZone(zoneID string) *TagBuilder {
	tb.tags[KeyZone] = zoneID
	return tb
}

// WithPeer adds the peer region tag.
func (tb *TagBuilder) WithPeer(region string) *TagBuilder {
	tb.tags[KeyPeer] = region
	return tb
}

// Build returns a copy of the tag map.
func (tb *TagBuilder) Build() map[string]string {
	result := make(map[string]string, len(tb.tags))
	for k, v := range tb.tags {
		result[k] = v
	}
	return result
}

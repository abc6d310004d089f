package ec2

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/util/retry"
)

// RealClient implements Provider using the AWS EC2 API.
type RealClient struct {
	base     aws.Config
	timeouts *config.Timeouts

	mu      sync.Mutex
	clients map[string]*awsec2.Client
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// NewRealClient loads the shared AWS configuration (environment, profile,
// instance role) and returns a client. homeRegion is used for account-wide
// calls such as region enumeration.
func NewRealClient(ctx context.Context, profile, homeRegion string, opts ...ClientOption) (*RealClient, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(homeRegion),
	}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewRealClientFromConfig(cfg, opts...), nil
}

// NewRealClientFromConfig creates a client from an already loaded AWS config.
func NewRealClientFromConfig(cfg aws.Config, opts ...ClientOption) *RealClient {
	c := &RealClient{
		base:     cfg,
		timeouts: config.LoadTimeouts(),
		clients:  make(map[string]*awsec2.Client),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// client returns the EC2 client for a region, creating it on first use.
func (c *RealClient) client(region string) *awsec2.Client {
	if region == "" {
		region = c.base.Region
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[region]; ok {
		return cl
	}
	cl := awsec2.NewFromConfig(c.base, func(o *awsec2.Options) {
		o.Region = region
	})
	c.clients[region] = cl
	return cl
}

// withRetry repeats calls that hit throttling or not-yet-visible resources.
func (c *RealClient) withRetry(ctx context.Context, op func() error) error {
	return retry.WithExponentialBackoff(ctx, op,
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithRetryIf(isRetryable),
	)
}

// ListRegions returns the regions enabled for the account, sorted.
func (c *RealClient) ListRegions(ctx context.Context) ([]string, error) {
	out, err := c.client("").DescribeRegions(ctx, &awsec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if name := aws.ToString(r.RegionName); name != "" {
			regions = append(regions, name)
		}
	}
	sort.Strings(regions)
	return regions, nil
}

// CreateNetwork creates a VPC with the given CIDR block.
func (c *RealClient) CreateNetwork(ctx context.Context, region, cidr string, tags map[string]string) (string, error) {
	var id string
	err := c.withRetry(ctx, func() error {
		out, err := c.client(region).CreateVpc(ctx, &awsec2.CreateVpcInput{
			CidrBlock:         aws.String(cidr),
			TagSpecifications: tagSpecifications(ec2types.ResourceTypeVpc, tags),
		})
		if err != nil {
			return err
		}
		id = aws.ToString(out.Vpc.VpcId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create vpc %s in %s: %w", cidr, region, err)
	}
	return id, nil
}

// WaitUntilNetworkAvailable waits for the VPC state to become "available".
func (c *RealClient) WaitUntilNetworkAvailable(ctx context.Context, region, networkID string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = c.timeouts.NetworkAvailable
	}
	waiter := awsec2.NewVpcAvailableWaiter(c.client(region))
	if err := waiter.Wait(ctx, &awsec2.DescribeVpcsInput{VpcIds: []string{networkID}}, timeout); err != nil {
		return fmt.Errorf("vpc %s in %s did not become available: %w", networkID, region, err)
	}
	return nil
}

// CreateExternalGateway creates an internet gateway.
func (c *RealClient) CreateExternalGateway(ctx context.Context, region string, tags map[string]string) (string, error) {
	var id string
	err := c.withRetry(ctx, func() error {
		out, err := c.client(region).CreateInternetGateway(ctx, &awsec2.CreateInternetGatewayInput{
			TagSpecifications: tagSpecifications(ec2types.ResourceTypeInternetGateway, tags),
		})
		if err != nil {
			return err
		}
		id = aws.ToString(out.InternetGateway.InternetGatewayId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create internet gateway in %s: %w", region, err)
	}
	return id, nil
}

// AttachGateway attaches an internet gateway to a VPC.
func (c *RealClient) AttachGateway(ctx context.Context, region, networkID, gatewayID string) error {
	err := c.withRetry(ctx, func() error {
		_, err := c.client(region).AttachInternetGateway(ctx, &awsec2.AttachInternetGatewayInput{
			InternetGatewayId: aws.String(gatewayID),
			VpcId:             aws.String(networkID),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to attach %s to %s: %w", gatewayID, networkID, err)
	}
	return nil
}

// ListSecurityGroups returns the IDs of all security groups of a VPC.
func (c *RealClient) ListSecurityGroups(ctx context.Context, region, networkID string) ([]string, error) {
	paginator := awsec2.NewDescribeSecurityGroupsPaginator(c.client(region), &awsec2.DescribeSecurityGroupsInput{
		Filters: vpcFilter(networkID),
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list security groups of %s: %w", networkID, err)
		}
		for _, sg := range page.SecurityGroups {
			ids = append(ids, aws.ToString(sg.GroupId))
		}
	}
	return ids, nil
}

// AuthorizeIngress adds an ingress permission to a security group.
// A rule that is already present counts as success.
func (c *RealClient) AuthorizeIngress(ctx context.Context, region, groupID string, rule IngressRule) error {
	perm := ec2types.IpPermission{
		IpProtocol: aws.String(rule.Protocol),
		FromPort:   aws.Int32(rule.FromPort),
		ToPort:     aws.Int32(rule.ToPort),
		IpRanges: []ec2types.IpRange{{
			CidrIp:      aws.String(rule.CIDR),
			Description: optionalString(rule.Description),
		}},
	}

	err := c.withRetry(ctx, func() error {
		_, err := c.client(region).AuthorizeSecurityGroupIngress(ctx, &awsec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: []ec2types.IpPermission{perm},
		})
		return err
	})
	if err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("failed to authorize %s ingress on %s: %w", rule.Protocol, groupID, err)
	}
	return nil
}

// ListRouteTables returns the IDs of all route tables of a VPC.
func (c *RealClient) ListRouteTables(ctx context.Context, region, networkID string) ([]string, error) {
	paginator := awsec2.NewDescribeRouteTablesPaginator(c.client(region), &awsec2.DescribeRouteTablesInput{
		Filters: vpcFilter(networkID),
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list route tables of %s: %w", networkID, err)
		}
		for _, rt := range page.RouteTables {
			ids = append(ids, aws.ToString(rt.RouteTableId))
		}
	}
	return ids, nil
}

// TagResource adds or overwrites tags on a resource.
func (c *RealClient) TagResource(ctx context.Context, region, resourceID string, tags map[string]string) error {
	err := c.withRetry(ctx, func() error {
		_, err := c.client(region).CreateTags(ctx, &awsec2.CreateTagsInput{
			Resources: []string{resourceID},
			Tags:      toTags(tags),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to tag %s: %w", resourceID, err)
	}
	return nil
}

// CreateRoute adds a route to a route table.
func (c *RealClient) CreateRoute(ctx context.Context, region, routeTableID, destinationCIDR string, target RouteTarget) error {
	input := &awsec2.CreateRouteInput{
		RouteTableId:         aws.String(routeTableID),
		DestinationCidrBlock: aws.String(destinationCIDR),
	}
	switch {
	case target.GatewayID != "":
		input.GatewayId = aws.String(target.GatewayID)
	case target.PeeringID != "":
		input.VpcPeeringConnectionId = aws.String(target.PeeringID)
	default:
		return fmt.Errorf("route %s on %s has no target", destinationCIDR, routeTableID)
	}

	err := c.withRetry(ctx, func() error {
		_, err := c.client(region).CreateRoute(ctx, input)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create route %s on %s: %w", destinationCIDR, routeTableID, err)
	}
	return nil
}

// ListAvailabilityZones returns the available zones of a region.
// Local and wavelength zones are excluded.
func (c *RealClient) ListAvailabilityZones(ctx context.Context, region string) ([]Zone, error) {
	out, err := c.client(region).DescribeAvailabilityZones(ctx, &awsec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("zone-type"), Values: []string{"availability-zone"}},
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe availability zones of %s: %w", region, err)
	}

	zones := make([]Zone, 0, len(out.AvailabilityZones))
	for _, az := range out.AvailabilityZones {
		zones = append(zones, Zone{
			Name: aws.ToString(az.ZoneName),
			ID:   aws.ToString(az.ZoneId),
		})
	}
	return zones, nil
}

// CreateSubnet creates a subnet in the given availability zone.
func (c *RealClient) CreateSubnet(ctx context.Context, region, networkID, cidr, zone string, tags map[string]string) (string, error) {
	var id string
	err := c.withRetry(ctx, func() error {
		out, err := c.client(region).CreateSubnet(ctx, &awsec2.CreateSubnetInput{
			VpcId:             aws.String(networkID),
			CidrBlock:         aws.String(cidr),
			AvailabilityZone:  aws.String(zone),
			TagSpecifications: tagSpecifications(ec2types.ResourceTypeSubnet, tags),
		})
		if err != nil {
			return err
		}
		id = aws.ToString(out.Subnet.SubnetId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create subnet %s in %s: %w", cidr, zone, err)
	}
	return id, nil
}

// RequestPeering requests a peering connection from networkID in region to
// peerNetworkID in peerRegion.
func (c *RealClient) RequestPeering(ctx context.Context, region, networkID, peerNetworkID, peerRegion string, tags map[string]string) (string, error) {
	var id string
	err := c.withRetry(ctx, func() error {
		out, err := c.client(region).CreateVpcPeeringConnection(ctx, &awsec2.CreateVpcPeeringConnectionInput{
			VpcId:             aws.String(networkID),
			PeerVpcId:         aws.String(peerNetworkID),
			PeerRegion:        aws.String(peerRegion),
			TagSpecifications: tagSpecifications(ec2types.ResourceTypeVpcPeeringConnection, tags),
		})
		if err != nil {
			return err
		}
		id = aws.ToString(out.VpcPeeringConnection.VpcPeeringConnectionId)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to request peering %s -> %s: %w", networkID, peerNetworkID, err)
	}
	return id, nil
}

// WaitUntilPeeringVisible waits until the peering connection can be
// described in region.
func (c *RealClient) WaitUntilPeeringVisible(ctx context.Context, region, peeringID string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = c.timeouts.PeeringVisible
	}
	waiter := awsec2.NewVpcPeeringConnectionExistsWaiter(c.client(region))
	input := &awsec2.DescribeVpcPeeringConnectionsInput{VpcPeeringConnectionIds: []string{peeringID}}
	if err := waiter.Wait(ctx, input, timeout); err != nil {
		return fmt.Errorf("peering %s not visible in %s: %w", peeringID, region, err)
	}
	return nil
}

// AcceptPeering accepts a pending peering connection in the accepter region.
func (c *RealClient) AcceptPeering(ctx context.Context, region, peeringID string) error {
	err := c.withRetry(ctx, func() error {
		_, err := c.client(region).AcceptVpcPeeringConnection(ctx, &awsec2.AcceptVpcPeeringConnectionInput{
			VpcPeeringConnectionId: aws.String(peeringID),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to accept peering %s in %s: %w", peeringID, region, err)
	}
	return nil
}

func vpcFilter(networkID string) []ec2types.Filter {
	return []ec2types.Filter{{Name: aws.String("vpc-id"), Values: []string{networkID}}}
}

// toTags converts a tag map to EC2 tags, sorted by key.
func toTags(tags map[string]string) []ec2types.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ec2types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, ec2types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}

func tagSpecifications(resourceType ec2types.ResourceType, tags map[string]string) []ec2types.TagSpecification {
	if len(tags) == 0 {
		return nil
	}
	return []ec2types.TagSpecification{{
		ResourceType: resourceType,
		Tags:         toTags(tags),
	}}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

package mesh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/gvpc/internal/config"
	"github.com/imamik/gvpc/internal/platform/ec2"
	"github.com/imamik/gvpc/internal/provisioning"
	"github.com/imamik/gvpc/internal/util/naming"
	"github.com/imamik/gvpc/internal/util/tags"
)

const phase = "mesh"

// Provider is the subset of ec2.Provider needed to peer two networks.
type Provider interface {
	ec2.PeeringManager
	ec2.RouteManager
	ec2.ResourceTagger
}

// Connector peers two regional networks and routes each one's CIDR
// through the peering on the other side.
type Connector struct {
	provider Provider
	observer provisioning.Observer
	timeouts *config.Timeouts
	locks    *NetworkLocks
	runID    string
}

// Option configures a Connector.
type Option func(*Connector)

// WithObserver sets the observer used for the log stream.
func WithObserver(o provisioning.Observer) Option {
	return func(c *Connector) {
		c.observer = o
	}
}

// WithTimeouts sets the wait timeouts.
func WithTimeouts(t *config.Timeouts) Option {
	return func(c *Connector) {
		c.timeouts = t
	}
}

// WithLocks shares a lock set between connectors.
func WithLocks(l *NetworkLocks) Option {
	return func(c *Connector) {
		c.locks = l
	}
}

// WithRunID tags every peering connection with the run ID.
func WithRunID(id string) Option {
	return func(c *Connector) {
		c.runID = id
	}
}

// NewConnector creates a Connector.
func NewConnector(p Provider, opts ...Option) *Connector {
	c := &Connector{
		provider: p,
		observer: provisioning.NewNopObserver(),
		timeouts: config.LoadTimeouts(),
		locks:    NewNetworkLocks(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect peers a (requester) with b (accepter) and adds the routes on
// both sides. It is not idempotent; every pair must be connected once.
func (c *Connector) Connect(ctx context.Context, a, b provisioning.NetworkRecord) (result provisioning.PairResult) {
	start := time.Now()
	result.Requester = a
	result.Accepter = b
	obs := c.observer.WithFields(map[string]string{"pair": result.Name()})

	defer func() {
		result.Duration = time.Since(start)
		if result.Err != nil {
			provisioning.LogResourceFailed(obs, phase, "connect", result.Err)
		}
	}()

	peeringID, err := c.peer(ctx, obs, a, b)
	result.PeeringID = peeringID
	if err != nil {
		result.Err = err
		if peeringID != "" {
			provisioning.LogWarning(obs, phase, fmt.Sprintf(
				"%s remains in the account and is not rolled back", peeringID))
		}
		return result
	}

	// Accepter-side name tag. A missing name does not affect traffic.
	acceptTags := c.tags(a, b).WithRegion(b.Region).WithPeer(a.Region).Build()
	if err := c.provider.TagResource(ctx, b.Region, peeringID, acceptTags); err != nil {
		provisioning.LogWarning(obs, phase, fmt.Sprintf("could not tag %s in %s: %v", peeringID, b.Region, err))
	}

	added, errB := c.addRoutes(ctx, obs, b, a.CIDR, peeringID)
	result.RoutesAdded += added
	added, errA := c.addRoutes(ctx, obs, a, b.CIDR, peeringID)
	result.RoutesAdded += added

	result.Err = errors.Join(errB, errA)
	return result
}

// peer requests the connection from a, waits until b can see it and accepts it in b.
func (c *Connector) peer(ctx context.Context, obs provisioning.Observer, a, b provisioning.NetworkRecord) (string, error) {
	requestTags := c.tags(a, b).WithRegion(a.Region).WithPeer(b.Region).Build()
	peeringID, err := c.provider.RequestPeering(ctx, a.Region, a.NetworkID, b.NetworkID, b.Region, requestTags)
	if err != nil {
		return "", fmt.Errorf("request peering: %w", err)
	}
	provisioning.LogResourceCreated(obs, phase, "peering", peeringID, map[string]string{
		"requester": a.NetworkID,
		"accepter":  b.NetworkID,
	})

	if err := c.provider.WaitUntilPeeringVisible(ctx, b.Region, peeringID, c.timeouts.PeeringVisible); err != nil {
		return peeringID, fmt.Errorf("wait for %s in %s: %w", peeringID, b.Region, err)
	}
	if err := c.provider.AcceptPeering(ctx, b.Region, peeringID); err != nil {
		return peeringID, fmt.Errorf("accept %s: %w", peeringID, err)
	}
	provisioning.LogResourceUpdated(obs, phase, "peering", peeringID, "accepted in "+b.Region)

	return peeringID, nil
}

// addRoutes routes destination through the peering in every route table
// of network. Writes to one network are serialized across pairs.
func (c *Connector) addRoutes(ctx context.Context, obs provisioning.Observer, network provisioning.NetworkRecord, destination, peeringID string) (int, error) {
	unlock := c.locks.Lock(network.NetworkID)
	defer unlock()

	tables, err := c.provider.ListRouteTables(ctx, network.Region, network.NetworkID)
	if err != nil {
		return 0, fmt.Errorf("list route tables of %s: %w", network.NetworkID, err)
	}

	var (
		added int
		errs  []error
	)
	for _, tableID := range tables {
		if err := c.provider.CreateRoute(ctx, network.Region, tableID, destination, ec2.ViaPeering(peeringID)); err != nil {
			errs = append(errs, fmt.Errorf("route %s on %s: %w", destination, tableID, err))
			continue
		}
		added++
		provisioning.LogResourceUpdated(obs, phase, "route-table", tableID, destination+" via "+peeringID)
	}
	return added, errors.Join(errs...)
}

func (c *Connector) tags(a, b provisioning.NetworkRecord) *tags.TagBuilder {
	return tags.NewTagBuilder(naming.Peering(a.Region, b.Region)).WithRunID(c.runID)
}

package ec2

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "test"}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		err           error
		throttled     bool
		notFound      bool
		peeringAbsent bool
		exists        bool
		dependency    bool
	}{
		{name: "nil error"},
		{name: "generic error", err: errors.New("boom")},
		{name: "request limit", err: apiError("RequestLimitExceeded"), throttled: true},
		{name: "throttling", err: apiError("Throttling"), throttled: true},
		{name: "vpc not found", err: apiError("InvalidVpcID.NotFound"), notFound: true},
		{name: "peering not found", err: apiError("InvalidVpcPeeringConnectionID.NotFound"), notFound: true, peeringAbsent: true},
		{name: "duplicate permission", err: apiError("InvalidPermission.Duplicate"), exists: true},
		{name: "duplicate tag", err: apiError("InvalidGroup.Duplicate"), exists: true},
		{name: "route exists", err: apiError("RouteAlreadyExists"), exists: true},
		{name: "dependency", err: apiError("DependencyViolation"), dependency: true},
		{name: "wrapped", err: fmt.Errorf("failed to attach: %w", apiError("DependencyViolation")), dependency: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.throttled, IsThrottled(tt.err), "IsThrottled")
			assert.Equal(t, tt.notFound, IsNotFound(tt.err), "IsNotFound")
			assert.Equal(t, tt.peeringAbsent, IsPeeringNotFound(tt.err), "IsPeeringNotFound")
			assert.Equal(t, tt.exists, IsAlreadyExists(tt.err), "IsAlreadyExists")
			assert.Equal(t, tt.dependency, IsDependencyViolation(tt.err), "IsDependencyViolation")
			assert.Equal(t, tt.throttled || tt.notFound, isRetryable(tt.err), "isRetryable")
		})
	}
}

func TestRouteTargets(t *testing.T) {
	t.Parallel()
	assert.Equal(t, RouteTarget{GatewayID: "igw-1"}, ViaGateway("igw-1"))
	assert.Equal(t, RouteTarget{PeeringID: "pcx-1"}, ViaPeering("pcx-1"))

	rule := ICMPFromMesh()
	assert.Equal(t, "icmp", rule.Protocol)
	assert.Equal(t, int32(-1), rule.FromPort)
	assert.Equal(t, int32(-1), rule.ToPort)
	assert.Equal(t, "10.0.0.0/8", rule.CIDR)
}

func TestMockClient_DefaultsAndRecording(t *testing.T) {
	t.Parallel()
	m := &MockClient{}
	ctx := t.Context()

	id, err := m.CreateNetwork(ctx, "eu-west-1", "10.101.0.0/16", nil)
	assert.NoError(t, err)
	assert.Equal(t, "vpc-eu-west-1", id)

	pcx, err := m.RequestPeering(ctx, "eu-west-1", "vpc-a", "vpc-b", "us-east-1", nil)
	assert.NoError(t, err)
	assert.Equal(t, "pcx-vpc-a-vpc-b", pcx)

	m.CreateNetworkFunc = func(_ context.Context, _, _ string, _ map[string]string) (string, error) {
		return "", errors.New("quota")
	}
	_, err = m.CreateNetwork(ctx, "us-east-1", "10.105.0.0/16", nil)
	assert.Error(t, err)

	assert.Equal(t, 2, m.CallCount("CreateNetwork"))
	calls := m.CallsTo("RequestPeering")
	assert.Len(t, calls, 1)
	assert.Equal(t, "eu-west-1", calls[0].Region)
	assert.Equal(t, []string{"vpc-a", "vpc-b", "us-east-1"}, calls[0].Args)
}

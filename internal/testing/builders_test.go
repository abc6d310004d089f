package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBuilder_Immutable(t *testing.T) {
	t.Parallel()
	base := NewConfigBuilder().WithInclude("eu-west-1")
	derived := base.WithExclude("us-east-1")

	assert.Empty(t, base.Build().Regions.Exclude)
	assert.Equal(t, []string{"us-east-1"}, derived.Build().Regions.Exclude)
	assert.Equal(t, []string{"eu-west-1"}, derived.Build().Regions.Include)
}

func TestConfigBuilder_BuildValidates(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "testing: invalid config: region eu-west-1 is both included and excluded", func() {
		NewConfigBuilder().WithInclude("eu-west-1").WithExclude("eu-west-1").Build()
	})
	assert.Panics(t, func() {
		NewConfigBuilder().WithConcurrency(0, 4).Build()
	})

	cfg := NewConfigBuilder().WithPeerPartial(false).Build()
	require.NotNil(t, cfg)
	assert.False(t, cfg.Mesh.PeerPartial())
}

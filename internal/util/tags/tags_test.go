package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTagBuilder(t *testing.T) {
	t.Parallel()

	got := NewTagBuilder("vpc-eu-west-1-gvpc").Build()

	assert.Equal(t, map[string]string{
		KeyName:      "vpc-eu-west-1-gvpc",
		KeyManagedBy: ManagedByGVPC,
	}, got)
}

func TestTagBuilder_Chained(t *testing.T) {
	t.Parallel()

	got := NewTagBuilder("subnet-use1-az1-pub-gvpc").
		WithRunID("run-1").
		WithRegion("us-east-1").
		WithTier("public").
		WithZone("use1-az1").
		Build()

	assert.Equal(t, "run-1", got[KeyRunID])
	assert.Equal(t, "us-east-1", got[KeyRegion])
	assert.Equal(t, "public", got[KeyTier])
	assert.Equal(t, "use1-az1", got[KeyZone])
}

func TestTagBuilder_EmptyRunIDSkipped(t *testing.T) {
	t.Parallel()

	got := NewTagBuilder("x").WithRunID("").Build()

	_, ok := got[KeyRunID]
	assert.False(t, ok)
}

func TestTagBuilder_BuildReturnsCopy(t *testing.T) {
	t.Parallel()
	tb := NewTagBuilder("x").WithPeer("eu-west-1")

	first := tb.Build()
	first[KeyPeer] = "mutated"

	assert.Equal(t, "eu-west-1", tb.Build()[KeyPeer])
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()

	assert.Equal(t, DefaultRegionConcurrency, cfg.Concurrency.Regions)
	assert.Equal(t, DefaultPairConcurrency, cfg.Concurrency.Pairs)
	assert.Equal(t, "gvpc.log", cfg.Log.File)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "us-east-1", cfg.AWS.HomeRegion)
	assert.Equal(t, "us-east-1", cfg.Report.Region)
	assert.True(t, cfg.Mesh.PeerPartial())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromBytes(t *testing.T) {
	t.Parallel()
	data := []byte(`
regions:
  exclude: [me-central-1]
concurrency:
  regions: 4
mesh:
  peer_partial_regions: false
log:
  level: debug
  format: json
report:
  bucket: audit
aws:
  home_region: eu-west-1
`)

	cfg, err := LoadFromBytes(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"me-central-1"}, cfg.Regions.Exclude)
	assert.Equal(t, 4, cfg.Concurrency.Regions)
	assert.Equal(t, DefaultPairConcurrency, cfg.Concurrency.Pairs)
	assert.False(t, cfg.Mesh.PeerPartial())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "audit", cfg.Report.Bucket)
	assert.Equal(t, "gvpc-runs", cfg.Report.Prefix)
	assert.Equal(t, "eu-west-1", cfg.Report.Region)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "regions: [unclosed"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"concurrency too high", "concurrency:\n  regions: 1000\n"},
		{"bad endpoint", "report:\n  endpoint: not a url\n"},
		{"include and exclude", "regions:\n  include: [eu-west-1]\n  exclude: [eu-west-1]\n"},
		{"empty include entry", "regions:\n  include: ['']\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFromBytes([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency:\n  pairs: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Concurrency.Pairs)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFilterRegions(t *testing.T) {
	t.Parallel()
	regions := []string{"us-east-1", "eu-west-1", "ap-south-1", "me-central-1"}

	cfg := Default()
	assert.Equal(t, []string{"ap-south-1", "eu-west-1", "me-central-1", "us-east-1"}, cfg.FilterRegions(regions))

	cfg.Regions.Exclude = []string{"me-central-1"}
	assert.Equal(t, []string{"ap-south-1", "eu-west-1", "us-east-1"}, cfg.FilterRegions(regions))

	cfg.Regions.Include = []string{"us-east-1", "eu-west-1", "sa-east-1"}
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, cfg.FilterRegions(regions))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GVPC_TEST_ENV_FILE=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GVPC_TEST_ENV_FILE") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("GVPC_TEST_ENV_FILE"))

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "absent.env")))
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	t.Setenv("GVPC_TIMEOUT_NETWORK_AVAILABLE", "")
	t.Setenv("GVPC_TIMEOUT_PEERING_VISIBLE", "")
	t.Setenv("GVPC_RETRY_MAX_ATTEMPTS", "")
	t.Setenv("GVPC_RETRY_INITIAL_DELAY", "")

	timeouts := LoadTimeouts()

	assert.Equal(t, 5*time.Minute, timeouts.NetworkAvailable)
	assert.Equal(t, 5*time.Minute, timeouts.PeeringVisible)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
	assert.Equal(t, time.Second, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_FromEnv(t *testing.T) {
	t.Setenv("GVPC_TIMEOUT_NETWORK_AVAILABLE", "90s")
	t.Setenv("GVPC_TIMEOUT_PEERING_VISIBLE", "2m")
	t.Setenv("GVPC_RETRY_MAX_ATTEMPTS", "9")
	t.Setenv("GVPC_RETRY_INITIAL_DELAY", "250ms")

	timeouts := LoadTimeouts()

	assert.Equal(t, 90*time.Second, timeouts.NetworkAvailable)
	assert.Equal(t, 2*time.Minute, timeouts.PeeringVisible)
	assert.Equal(t, 9, timeouts.RetryMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_InvalidFallsBack(t *testing.T) {
	t.Setenv("GVPC_TIMEOUT_NETWORK_AVAILABLE", "soon")
	t.Setenv("GVPC_RETRY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()

	assert.Equal(t, 5*time.Minute, timeouts.NetworkAvailable)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
}

package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/gvpc/internal/addressing"
	"github.com/imamik/gvpc/internal/platform/ec2"
	"github.com/imamik/gvpc/internal/provisioning"
)

func counterValue(c prometheus.Collector) float64 {
	return testutil.ToFloat64(c)
}

func TestMetrics_RecordBuild(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	record := provisioning.NetworkRecord{Region: "eu-west-1", NetworkID: "vpc-1", CIDR: "10.101.0.0/16"}

	m.recordBuild(provisioning.BuildResult{Record: record})
	m.recordBuild(provisioning.BuildResult{Record: record, StepErrors: []error{errors.New("subnet")}})
	m.recordBuild(provisioning.BuildResult{Err: errors.New("vpc")})
	m.recordBuild(provisioning.BuildResult{Err: errors.New("igw")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.regionBuilds.WithLabelValues(StatusSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.regionBuilds.WithLabelValues(StatusPartial)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.regionBuilds.WithLabelValues(StatusFailed)))
}

func TestMetrics_RecordPair(t *testing.T) {
	t.Parallel()
	m := NewMetrics()

	m.recordPair(provisioning.PairResult{PeeringID: "pcx-1"})
	m.recordPair(provisioning.PairResult{Err: errors.New("accept")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.peerings.WithLabelValues(StatusSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.peerings.WithLabelValues(StatusFailed)))
}

func TestMetrics_ObservePhase(t *testing.T) {
	t.Parallel()
	m := NewMetrics()

	m.observePhase(PhaseNetwork, 3*time.Second)
	m.observePhase(PhaseNetwork, 5*time.Second)

	assert.Equal(t, 1, testutil.CollectAndCount(m.phaseDuration))
	count, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInstrumentedProvider_CountsResults(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	mock := &ec2.MockClient{
		AcceptPeeringFunc: func(context.Context, string, string) error {
			return errors.New("not found")
		},
	}
	p := &instrumentedProvider{next: mock, metrics: m}

	_, err := p.CreateNetwork(context.Background(), "eu-west-1", "10.101.0.0/16", nil)
	require.NoError(t, err)
	assert.Error(t, p.AcceptPeering(context.Background(), "eu-west-1", "pcx-1"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("CreateNetwork", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("AcceptPeering", "error")))
	assert.Equal(t, 1, mock.CallCount("CreateNetwork"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.recordBuild(provisioning.BuildResult{
		Plan:   addressing.RegionPlan{Region: "eu-west-1", Offset: 101},
		Record: provisioning.NetworkRecord{Region: "eu-west-1", NetworkID: "vpc-1", CIDR: "10.101.0.0/16"},
	})
	m.observePhase(PhaseMesh, 2*time.Second)

	path := filepath.Join(t.TempDir(), "gvpc.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `gvpc_region_builds_total{result="succeeded"} 1`), text)
	assert.Contains(t, text, `gvpc_phase_duration_seconds_count{phase="mesh"} 1`)

	expected := `
# HELP gvpc_region_builds_total Regional network builds by result
# TYPE gvpc_region_builds_total counter
gvpc_region_builds_total{result="succeeded"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.regionBuilds, strings.NewReader(expected)))
}

func TestMetrics_WriteTextfileError(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "gvpc.prom"))
	assert.Error(t, err)
}

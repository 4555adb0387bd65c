package latency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-admin/aegis-admin/internal/platform/latency"
)

func TestNoneNeverDelays(t *testing.T) {
	start := time.Now()
	require.NoError(t, latency.None().Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestSimulatorRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := latency.NewSimulator(time.Hour, time.Hour, 2*time.Hour).Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatorStalledBeyondLimit(t *testing.T) {
	sim := latency.NewSimulator(time.Minute, time.Minute, time.Millisecond)
	err := sim.Wait(context.Background())
	assert.ErrorIs(t, err, latency.ErrStalled)
}

func TestSimulatorCompletes(t *testing.T) {
	sim := latency.NewSimulator(time.Millisecond, 2*time.Millisecond, time.Second)
	require.NoError(t, sim.Wait(context.Background()))
}

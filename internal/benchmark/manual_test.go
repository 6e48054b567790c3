package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualBackendMeasuresSelfTerminatingCommand(t *testing.T) {
	b := NewManualBackend()
	sc := Scenario{Name: "cold-start", Argv: []string{"true"}}

	sum := b.Measure(context.Background(), sc, Options{
		Runs:    3,
		Warmup:  1,
		Timeout: 10 * time.Second,
	})

	assert.True(t, sum.Available)
	assert.Equal(t, 3, sum.ValidSamples)
	assert.Equal(t, 3, sum.TotalRuns)
	assert.Equal(t, "manual", sum.Backend)
	assert.Greater(t, sum.MeanMs, 0.0)
	// The manual backend reports no distribution stats.
	assert.Zero(t, sum.StddevMs)
}

func TestManualBackendFailingCommandIsUnavailable(t *testing.T) {
	b := NewManualBackend()
	sc := Scenario{Name: "cold-start", Argv: []string{"false"}}

	sum := b.Measure(context.Background(), sc, Options{
		Runs:    2,
		Warmup:  0,
		Timeout: 10 * time.Second,
	})

	// All samples discarded: unavailable, never a zero mean pretending
	// to be a measurement.
	assert.False(t, sum.Available)
	assert.Equal(t, 0, sum.ValidSamples)
	assert.Equal(t, 2, sum.TotalRuns)
	assert.Zero(t, sum.MeanMs)
}

func TestManualBackendMissingBinaryIsUnavailable(t *testing.T) {
	b := NewManualBackend()
	sc := Scenario{Name: "cold-start", Argv: []string{"edbench-no-such-binary"}}

	sum := b.Measure(context.Background(), sc, Options{Runs: 1, Timeout: time.Second})

	assert.False(t, sum.Available)
	assert.Equal(t, 0, sum.ValidSamples)
	assert.Equal(t, 1, sum.TotalRuns)
}

func TestManualBackendTimeoutDiscardsSample(t *testing.T) {
	b := NewManualBackend()
	sc := Scenario{Name: "hung", Argv: []string{"sleep", "10"}}

	start := time.Now()
	sum := b.Measure(context.Background(), sc, Options{
		Runs:    1,
		Warmup:  0,
		Timeout: 100 * time.Millisecond,
	})

	assert.False(t, sum.Available)
	assert.Equal(t, 0, sum.ValidSamples)
	// The timeout actually bounded the invocation.
	assert.Less(t, time.Since(start), 5*time.Second)
}

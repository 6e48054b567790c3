package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `{
  "results": [
    {
      "command": "vim +q fixtures/large-log-like.log",
      "mean": 0.0421,
      "stddev": 0.0031,
      "median": 0.0415,
      "min": 0.0389,
      "max": 0.0502,
      "times": [0.0421, 0.0415, 0.0389, 0.0502]
    }
  ]
}`

func TestParseExport(t *testing.T) {
	entry, err := parseExport([]byte(sampleExport))
	require.NoError(t, err)

	assert.InDelta(t, 0.0421, entry.Mean, 1e-9)
	assert.InDelta(t, 0.0415, entry.Median, 1e-9)
	assert.Len(t, entry.Times, 4)
}

func TestParseExportEmptyResults(t *testing.T) {
	_, err := parseExport([]byte(`{"results": []}`))
	assert.Error(t, err)
}

func TestParseExportMalformed(t *testing.T) {
	_, err := parseExport([]byte(`{"results": [`))
	assert.Error(t, err)
}

func TestHyperfineBackendToolFailureIsUnavailable(t *testing.T) {
	// "false" stands in for a hyperfine that exits non-zero.
	b := &HyperfineBackend{bin: "false"}
	sc := Scenario{Name: "cold-start", Argv: []string{"true"}}

	sum := b.Measure(context.Background(), sc, Options{Runs: 3, Warmup: 1, Timeout: time.Second})

	assert.False(t, sum.Available)
	assert.Equal(t, "hyperfine", sum.Backend)
	assert.Equal(t, 3, sum.TotalRuns)
	assert.Zero(t, sum.MeanMs)
}

func TestHyperfineBackendSilentToolIsUnavailable(t *testing.T) {
	// "true" exits zero without writing the export: the empty export must
	// be treated as "could not measure", not as 0ms.
	b := &HyperfineBackend{bin: "true"}
	sc := Scenario{Name: "cold-start", Argv: []string{"true"}}

	sum := b.Measure(context.Background(), sc, Options{Runs: 3, Warmup: 1, Timeout: time.Second})

	assert.False(t, sum.Available)
	assert.Zero(t, sum.MeanMs)
}

func TestDetect(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	assert.Equal(t, "hyperfine", Detect().Name())

	lookPath = func(name string) (string, error) { return "", errors.New("not found") }
	assert.Equal(t, "manual", Detect().Name())
}

package benchmark

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// Options configures one scenario measurement.
type Options struct {
	Runs    int
	Warmup  int
	Timeout time.Duration
	// ExportDir, when set, receives backend-specific extra artifacts
	// (the statistical backend drops its markdown export there).
	ExportDir string
}

// Backend measures a scenario Runs times after Warmup discarded invocations.
// Implementations never abort the caller: a scenario that cannot be measured
// comes back as an unavailable summary and the run moves on.
type Backend interface {
	Name() string
	Measure(ctx context.Context, sc Scenario, opts Options) SampleSummary
}

// lookPath allows mocking binary detection in tests.
var lookPath = exec.LookPath

// Detect probes once whether hyperfine is invocable and picks the backend
// for the whole run; it is not re-probed per scenario.
func Detect() Backend {
	if _, err := lookPath(hyperfineBin); err == nil {
		return NewHyperfineBackend()
	}
	slog.Debug("hyperfine not found, falling back to manual timing loop")
	return NewManualBackend()
}

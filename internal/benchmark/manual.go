package benchmark

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// ManualBackend times the target with a plain wall-clock loop: Warmup
// discarded invocations to prime OS caches, then Runs timed invocations.
// A non-zero exit or a timeout invalidates that single sample; it is
// excluded from the mean while the total run count still records the
// configured attempts, so the discard rate stays visible.
type ManualBackend struct{}

func NewManualBackend() *ManualBackend {
	return &ManualBackend{}
}

func (b *ManualBackend) Name() string { return "manual" }

func (b *ManualBackend) Measure(ctx context.Context, sc Scenario, opts Options) SampleSummary {
	sum := SampleSummary{
		Scenario:  sc.Name,
		Backend:   b.Name(),
		TotalRuns: opts.Runs,
	}

	for i := 0; i < opts.Warmup; i++ {
		if _, err := b.runOnce(ctx, sc, opts.Timeout); err != nil {
			slog.Debug("Warmup invocation failed", "scenario", sc.Name, "error", err)
		}
	}

	var totalMs float64
	for i := 0; i < opts.Runs; i++ {
		elapsedMs, err := b.runOnce(ctx, sc, opts.Timeout)
		if err != nil {
			slog.Warn("Timed invocation failed, sample discarded",
				"scenario", sc.Name, "run", i+1, "error", err)
			continue
		}
		totalMs += elapsedMs
		sum.ValidSamples++
	}

	if sum.ValidSamples > 0 {
		sum.Available = true
		sum.MeanMs = totalMs / float64(sum.ValidSamples)
	}
	return sum
}

// runOnce blocks until the target exits or the per-invocation timeout fires.
// The timeout keeps one hung launch from stalling the whole run.
func (b *ManualBackend) runOnce(ctx context.Context, sc Scenario, timeout time.Duration) (float64, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, sc.Argv[0], sc.Argv[1:]...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		return 0, err
	}
	return float64(elapsed.Nanoseconds()) / 1e6, nil
}

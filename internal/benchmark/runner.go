package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"edbench/internal/config"
	"edbench/internal/fixture"
)

// Runner executes the fixed scenario list for one labeled run. Scenarios are
// measured strictly one after another: concurrent timing of a cold-start
// sensitive target would invalidate the wall-clock numbers.
type Runner struct {
	settings config.Settings
	backend  Backend
	progress io.Writer
}

func NewRunner(settings config.Settings, backend Backend, progress io.Writer) *Runner {
	if progress == nil {
		progress = io.Discard
	}
	return &Runner{settings: settings, backend: backend, progress: progress}
}

// Run generates fixtures if needed, measures every scenario, and streams
// each summary into the run artifact as it completes. It returns the
// persisted Run; a scenario that could not be measured is recorded as
// unavailable, never skipped.
func (r *Runner) Run(ctx context.Context, label string) (*Run, error) {
	if err := config.ValidateLabel(label); err != nil {
		return nil, err
	}

	set := fixture.DefaultSet(r.settings)
	generated, err := fixture.Ensure(r.settings.FixtureDir, set)
	if err != nil {
		return nil, fmt.Errorf("fixture setup failed: %w", err)
	}
	if generated {
		fmt.Fprintf(r.progress, "Generated fixtures in %s\n", r.settings.FixtureDir)
	}

	scenarios := Scenarios(r.settings, set)
	started := time.Now()

	store := NewStore(r.settings.ResultsRoot)
	dir, err := store.CreateRunDir(label, started)
	if err != nil {
		return nil, err
	}

	writer, err := NewArtifactWriter(dir, ArtifactHeader{
		Label:   label,
		Started: started,
		Backend: r.backend.Name(),
		Target:  strings.Join([]string{r.settings.TargetBin, r.settings.TargetExitFlag}, " "),
	})
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	slog.Info("Starting benchmark run",
		"label", label, "backend", r.backend.Name(), "scenarios", len(scenarios))

	run := &Run{Label: label, Timestamp: started, Dir: dir}
	opts := Options{
		Runs:      r.settings.RunCount,
		Warmup:    r.settings.WarmupCount,
		Timeout:   r.settings.InvocationTimeout,
		ExportDir: dir,
	}

	for i, sc := range scenarios {
		fmt.Fprintf(r.progress, "[%d/%d] %s (%d runs, %d warmup)\n",
			i+1, len(scenarios), sc.Name, opts.Runs, opts.Warmup)

		sum := r.backend.Measure(ctx, sc, opts)
		if err := writer.Append(sum); err != nil {
			return nil, err
		}
		run.Results = append(run.Results, sum)

		if sum.Available {
			fmt.Fprintf(r.progress, "      mean %.3f ms (%d/%d samples)\n",
				sum.MeanMs, sum.ValidSamples, sum.TotalRuns)
		} else {
			fmt.Fprintf(r.progress, "      unavailable (%d/%d samples)\n",
				sum.ValidSamples, sum.TotalRuns)
		}
	}

	slog.Info("Benchmark run complete", "label", label, "dir", dir)
	return run, nil
}

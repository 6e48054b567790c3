package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const hyperfineBin = "hyperfine"

// hyperfineExport is the JSON structure produced by --export-json.
// All latencies are in seconds.
type hyperfineExport struct {
	Results []hyperfineEntry `json:"results"`
}

type hyperfineEntry struct {
	Command string    `json:"command"`
	Mean    float64   `json:"mean"`
	Stddev  float64   `json:"stddev"`
	Median  float64   `json:"median"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Times   []float64 `json:"times"`
}

// HyperfineBackend delegates timing to hyperfine, which handles its own
// warmup and repeated sampling, and reads the results back from the JSON
// export. The markdown export is kept as a human-readable run artifact.
type HyperfineBackend struct {
	bin string
}

func NewHyperfineBackend() *HyperfineBackend {
	return &HyperfineBackend{bin: hyperfineBin}
}

func (b *HyperfineBackend) Name() string { return "hyperfine" }

func (b *HyperfineBackend) Measure(ctx context.Context, sc Scenario, opts Options) SampleSummary {
	sum := SampleSummary{
		Scenario:  sc.Name,
		Backend:   b.Name(),
		TotalRuns: opts.Runs,
	}

	tmp, err := os.CreateTemp("", "edbench-*.json")
	if err != nil {
		slog.Error("Failed to create hyperfine export file", "scenario", sc.Name, "error", err)
		return sum
	}
	tmpName := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpName)

	args := []string{
		"-N",
		"--warmup", strconv.Itoa(opts.Warmup),
		"--runs", strconv.Itoa(opts.Runs),
		"--export-json", tmpName,
	}
	if opts.ExportDir != "" {
		args = append(args, "--export-markdown",
			filepath.Join(opts.ExportDir, fmt.Sprintf("hyperfine-%s.md", sc.Name)))
	}
	args = append(args, strings.Join(sc.Argv, " "))

	cmd := exec.CommandContext(ctx, b.bin, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		slog.Warn("hyperfine invocation failed", "scenario", sc.Name, "error", err)
		return sum
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		slog.Warn("Failed to read hyperfine export", "scenario", sc.Name, "error", err)
		return sum
	}

	entry, err := parseExport(data)
	if err != nil {
		// Marked unavailable rather than defaulted to zero, so callers
		// can tell "measured 0ms" from "could not measure".
		slog.Warn("Failed to parse hyperfine export", "scenario", sc.Name, "error", err)
		return sum
	}

	sum.Available = true
	sum.MeanMs = entry.Mean * 1000
	sum.StddevMs = entry.Stddev * 1000
	sum.MedianMs = entry.Median * 1000
	sum.MinMs = entry.Min * 1000
	sum.MaxMs = entry.Max * 1000
	sum.ValidSamples = len(entry.Times)
	if sum.ValidSamples == 0 {
		sum.ValidSamples = opts.Runs
	}
	return sum
}

func parseExport(data []byte) (hyperfineEntry, error) {
	var export hyperfineExport
	if err := json.Unmarshal(data, &export); err != nil {
		return hyperfineEntry{}, fmt.Errorf("invalid export JSON: %w", err)
	}
	if len(export.Results) == 0 {
		return hyperfineEntry{}, fmt.Errorf("export contains no results")
	}
	return export.Results[0], nil
}

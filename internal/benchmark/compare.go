package benchmark

// Delta is the per-scenario comparison of two runs. The millisecond and
// percentage deltas are only meaningful when both sides are OK.
type Delta struct {
	Scenario   string
	BaselineMs float64
	AfterMs    float64
	DeltaMs    float64
	DeltaPct   float64
	BaselineOK bool
	AfterOK    bool
}

// Report is a derived, non-persisted view over two runs. Scenarios present
// in only one run are listed, never silently dropped.
type Report struct {
	Baseline *Run
	After    *Run
	Rows     []Delta
	// BaselineOnly and AfterOnly name scenarios that appear in just one
	// of the two runs (the scenario list changed between them).
	BaselineOnly []string
	AfterOnly    []string
	// BackendMismatch is set when any matched scenario pair was measured
	// by different backends; manual-loop timings have materially higher
	// variance than hyperfine's, so mixing them deserves a warning.
	BackendMismatch bool
}

// Compare matches the two runs' results by scenario name, in the baseline's
// scenario order, and computes absolute and relative mean-latency deltas.
func Compare(baseline, after *Run) Report {
	report := Report{Baseline: baseline, After: after}

	afterByName := make(map[string]SampleSummary, len(after.Results))
	for _, sum := range after.Results {
		afterByName[sum.Scenario] = sum
	}
	baselineNames := make(map[string]bool, len(baseline.Results))

	for _, base := range baseline.Results {
		baselineNames[base.Scenario] = true

		curr, ok := afterByName[base.Scenario]
		if !ok {
			report.BaselineOnly = append(report.BaselineOnly, base.Scenario)
			continue
		}

		row := Delta{
			Scenario:   base.Scenario,
			BaselineMs: base.MeanMs,
			AfterMs:    curr.MeanMs,
			BaselineOK: base.Available,
			AfterOK:    curr.Available,
		}
		if base.Available && curr.Available {
			row.DeltaMs = curr.MeanMs - base.MeanMs
			if base.MeanMs > 0 {
				row.DeltaPct = row.DeltaMs / base.MeanMs * 100
			}
		}
		if base.Backend != curr.Backend {
			report.BackendMismatch = true
		}
		report.Rows = append(report.Rows, row)
	}

	for _, sum := range after.Results {
		if !baselineNames[sum.Scenario] {
			report.AfterOnly = append(report.AfterOnly, sum.Scenario)
		}
	}
	return report
}

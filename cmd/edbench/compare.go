package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"edbench/internal/benchmark"
	"edbench/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var compareThreshold float64

var (
	fasterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	slowerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func newCompareCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "compare [baseline-label] [after-label]",
		Short: "Compare the two most recent labeled runs",
		Long: `Locates the most recent run for each of two labels (default "baseline" and
"after"), matches their results by scenario name, and prints a per-scenario
delta table. Fails if either label has no recorded runs.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompare,
	}
	c.Flags().Float64Var(&compareThreshold, "threshold", 10.0,
		"Percentage change flagged as a regression or improvement")
	return c
}

func init() {
	rootCmd.AddCommand(newCompareCmd())
}

func runCompare(cmd *cobra.Command, args []string) error {
	labelA, labelB := "baseline", "after"
	if len(args) > 0 {
		labelA = args[0]
	}
	if len(args) > 1 {
		labelB = args[1]
	}

	settings := config.FromViper()
	store := benchmark.NewStore(settings.ResultsRoot)

	baseline, err := store.LoadLatest(labelA)
	if err != nil {
		return fmt.Errorf("cannot compare: %w (run 'edbench run %s' first)", err, labelA)
	}
	after, err := store.LoadLatest(labelB)
	if err != nil {
		return fmt.Errorf("cannot compare: %w (run 'edbench run %s' first)", err, labelB)
	}

	report := benchmark.Compare(baseline, after)
	printReport(cmd, report, compareThreshold)
	return nil
}

func printReport(cmd *cobra.Command, report benchmark.Report, threshold float64) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Comparing %s vs %s\n\n",
		filepath.Base(report.Baseline.Dir), filepath.Base(report.After.Dir))

	if report.BackendMismatch {
		fmt.Fprintln(out, warnStyle.Render(
			"Warning: the runs used different timing backends; deltas include backend noise"))
		fmt.Fprintln(out)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tBASELINE (ms)\tAFTER (ms)\tDELTA (ms)\tDELTA %\tSTATUS")
	for _, row := range report.Rows {
		if !row.BaselineOK || !row.AfterOK {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t%s\n",
				row.Scenario, fmtMs(row.BaselineMs, row.BaselineOK),
				fmtMs(row.AfterMs, row.AfterOK), "UNMEASURED")
			continue
		}

		status := "~"
		switch {
		case row.DeltaPct > threshold:
			status = slowerStyle.Render("SLOWER")
		case row.DeltaPct < -threshold:
			status = fasterStyle.Render("FASTER")
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%+.3f\t%+.2f%%\t%s\n",
			row.Scenario, row.BaselineMs, row.AfterMs, row.DeltaMs, row.DeltaPct, status)
	}
	w.Flush()

	for _, name := range report.BaselineOnly {
		fmt.Fprintf(out, "only in %s: %s\n", report.Baseline.Label, name)
	}
	for _, name := range report.AfterOnly {
		fmt.Fprintf(out, "only in %s: %s\n", report.After.Label, name)
	}
}

func fmtMs(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

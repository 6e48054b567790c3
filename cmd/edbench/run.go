package main

import (
	"fmt"

	"edbench/internal/benchmark"
	"edbench/internal/config"

	"github.com/spf13/cobra"
)

// detectBackend allows mocking backend detection in tests.
var detectBackend = benchmark.Detect

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <label>",
		Short: "Run the full scenario list under a label",
		Long: `Runs the cold-start scenario and one open scenario per fixture, in fixed
order, and persists the results to a new <label>_<timestamp> directory under
the results root. Fixtures are generated on first use.

Labels are free-form (conventionally "baseline" and "after"); the most recent
run per label is what 'edbench compare' picks up.`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func runRun(cmd *cobra.Command, args []string) error {
	settings := config.FromViper()
	if err := settings.Validate(); err != nil {
		return err
	}

	backend := detectBackend()
	fmt.Fprintf(cmd.OutOrStdout(), "Timing backend: %s\n", backend.Name())

	runner := benchmark.NewRunner(settings, backend, cmd.OutOrStdout())
	run, err := runner.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), run.Dir)
	return nil
}

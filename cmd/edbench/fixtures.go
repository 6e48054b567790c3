package main

import (
	"fmt"

	"edbench/internal/config"
	"edbench/internal/fixture"

	"github.com/spf13/cobra"
)

func newFixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "Generate the synthetic benchmark fixtures",
		Long: `Generates the four fixture files (small structured config, long near-code
source, large tabular JSON, large log) into the fixture directory. Idempotent:
if the directory already contains all four files nothing is written.`,
		Args: cobra.NoArgs,
		RunE: runFixtures,
	}
}

func init() {
	rootCmd.AddCommand(newFixturesCmd())
}

func runFixtures(cmd *cobra.Command, args []string) error {
	settings := config.FromViper()
	if err := settings.Validate(); err != nil {
		return err
	}

	generated, err := fixture.Ensure(settings.FixtureDir, fixture.DefaultSet(settings))
	if err != nil {
		return fmt.Errorf("fixture generation failed: %w", err)
	}

	if generated {
		fmt.Fprintf(cmd.OutOrStdout(), "Generated fixtures in %s\n", settings.FixtureDir)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Fixtures already present in %s\n", settings.FixtureDir)
	}
	return nil
}

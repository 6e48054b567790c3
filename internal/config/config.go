package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

// Settings holds every knob the harness reads. Commands snapshot viper into
// a Settings value once and pass it down; nothing below the cmd layer
// consults ambient configuration state.
type Settings struct {
	// FixtureDir is where generated fixtures live.
	FixtureDir string
	// ResultsRoot contains one subdirectory per benchmark run.
	ResultsRoot string

	// TargetBin is the editor-like executable under measurement.
	TargetBin string
	// TargetExitFlag makes the target exit immediately after load.
	TargetExitFlag string

	// RunCount is the number of timed invocations per scenario.
	RunCount int
	// WarmupCount is the number of discarded cache-priming invocations.
	WarmupCount int
	// InvocationTimeout bounds a single target invocation so one hung
	// launch cannot stall the whole run.
	InvocationTimeout time.Duration

	// TabularTargetBytes is the approximate size of the tabular fixture.
	TabularTargetBytes int
	// LogTargetBytes is the approximate size of the log-like fixture.
	LogTargetBytes int
	// NearCodeTargetLines is the line target of the near-code fixture.
	NearCodeTargetLines int
}

const (
	DefaultRunCount          = 10
	DefaultWarmupCount       = 2
	DefaultInvocationTimeout = 60 * time.Second
	DefaultTabularBytes      = 2 * 1024 * 1024
	DefaultLogBytes          = 2 * 1024 * 1024
	DefaultNearCodeLines     = 10000
)

// Defaults returns the compiled-in configuration.
func Defaults() Settings {
	return Settings{
		FixtureDir:          ".edbench/fixtures",
		ResultsRoot:         ".edbench/runs",
		TargetBin:           "vim",
		TargetExitFlag:      "+q",
		RunCount:            DefaultRunCount,
		WarmupCount:         DefaultWarmupCount,
		InvocationTimeout:   DefaultInvocationTimeout,
		TabularTargetBytes:  DefaultTabularBytes,
		LogTargetBytes:      DefaultLogBytes,
		NearCodeTargetLines: DefaultNearCodeLines,
	}
}

// SetViperDefaults registers the compiled-in values so env vars and config
// files can override them.
func SetViperDefaults() {
	d := Defaults()
	viper.SetDefault("fixture_dir", d.FixtureDir)
	viper.SetDefault("results_root", d.ResultsRoot)
	viper.SetDefault("target.bin", d.TargetBin)
	viper.SetDefault("target.exit_flag", d.TargetExitFlag)
	viper.SetDefault("run_count", d.RunCount)
	viper.SetDefault("warmup_count", d.WarmupCount)
	viper.SetDefault("invocation_timeout", d.InvocationTimeout.String())
	viper.SetDefault("fixtures.tabular_bytes", d.TabularTargetBytes)
	viper.SetDefault("fixtures.log_bytes", d.LogTargetBytes)
	viper.SetDefault("fixtures.near_code_lines", d.NearCodeTargetLines)
}

// FromViper snapshots the current viper state into a Settings value.
func FromViper() Settings {
	return Settings{
		FixtureDir:          viper.GetString("fixture_dir"),
		ResultsRoot:         viper.GetString("results_root"),
		TargetBin:           viper.GetString("target.bin"),
		TargetExitFlag:      viper.GetString("target.exit_flag"),
		RunCount:            viper.GetInt("run_count"),
		WarmupCount:         viper.GetInt("warmup_count"),
		InvocationTimeout:   viper.GetDuration("invocation_timeout"),
		TabularTargetBytes:  viper.GetInt("fixtures.tabular_bytes"),
		LogTargetBytes:      viper.GetInt("fixtures.log_bytes"),
		NearCodeTargetLines: viper.GetInt("fixtures.near_code_lines"),
	}
}

// Validate checks the settings a run depends on.
func (s Settings) Validate() error {
	if s.FixtureDir == "" {
		return fmt.Errorf("fixture_dir must not be empty")
	}
	if s.ResultsRoot == "" {
		return fmt.Errorf("results_root must not be empty")
	}
	if s.TargetBin == "" {
		return fmt.Errorf("target.bin must not be empty")
	}
	if s.RunCount <= 0 {
		return fmt.Errorf("run_count must be positive, got %d", s.RunCount)
	}
	if s.WarmupCount < 0 {
		return fmt.Errorf("warmup_count must not be negative, got %d", s.WarmupCount)
	}
	if s.InvocationTimeout <= 0 {
		return fmt.Errorf("invocation_timeout must be positive, got %s", s.InvocationTimeout)
	}
	return nil
}

// labelPattern restricts labels to characters that are safe inside a run
// directory name. Underscore is reserved as the label/timestamp separator.
var labelPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.-]*$`)

// ValidateLabel rejects labels that would break run directory naming or the
// label-prefix glob used to find the most recent run.
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("label must not be empty")
	}
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("invalid label %q: use letters, digits, '.' or '-'", label)
	}
	return nil
}

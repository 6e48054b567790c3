package main

import (
	"fmt"
	"os"
	"strings"

	"edbench/internal/config"
	"edbench/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "edbench",
	Short: "Benchmark an editor's cold-start and file-open latency",
	Long: `edbench generates synthetic fixture files with controlled size and content
profiles, measures an editor-like target's cold-start and file-open latency
(via hyperfine when available, otherwise a manual timing loop), persists
labeled timestamped runs, and compares a "baseline" run against an "after"
run to quantify the effect of a change.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Mirror structured logs to a file")
	bindSettingsFlags(rootCmd.PersistentFlags())

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// bindSettingsFlags exposes the compiled-in defaults as named, overridable
// parameters.
func bindSettingsFlags(fs *pflag.FlagSet) {
	d := config.Defaults()

	fs.Int("run-count", d.RunCount, "Timed invocations per scenario")
	fs.Int("warmup-count", d.WarmupCount, "Discarded warmup invocations per scenario")
	fs.String("target-bin", d.TargetBin, "Editor-like executable to benchmark")
	fs.String("target-exit-flag", d.TargetExitFlag, "Flag that makes the target exit immediately after load")
	fs.String("fixture-dir", d.FixtureDir, "Directory holding generated fixtures")
	fs.String("results-root", d.ResultsRoot, "Directory holding run results")
	fs.Duration("invocation-timeout", d.InvocationTimeout, "Upper bound on a single target invocation")

	viper.BindPFlag("run_count", fs.Lookup("run-count"))
	viper.BindPFlag("warmup_count", fs.Lookup("warmup-count"))
	viper.BindPFlag("target.bin", fs.Lookup("target-bin"))
	viper.BindPFlag("target.exit_flag", fs.Lookup("target-exit-flag"))
	viper.BindPFlag("fixture_dir", fs.Lookup("fixture-dir"))
	viper.BindPFlag("results_root", fs.Lookup("results-root"))
	viper.BindPFlag("invocation_timeout", fs.Lookup("invocation-timeout"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// explicit .env loading; a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("EDBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetViperDefaults()
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}

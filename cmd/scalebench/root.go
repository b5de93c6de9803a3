package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"scalebench/internal/archive"
	"scalebench/internal/benchmark"
	"scalebench/internal/config"
	"scalebench/internal/host"
	"scalebench/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	exit    = os.Exit
	cfgFile string
	cfg     config.Config
)

// Seams replaced in tests.
var (
	now          = time.Now
	allowedCPUs  = host.AllowedCPUs
	describeHost = host.Describe
	newRunner    = func(taskset string, logger *slog.Logger) benchmark.Runner {
		r := benchmark.NewAffinityRunner(taskset)
		r.Logger = logger
		return r
	}
	openArchive = func(c config.ArchiveConfig) (archive.Store, error) {
		return archive.NewStore(archive.Config{Type: c.Type, DSN: c.DSN})
	}
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"verbose":            "verbose",
	"quiet":              "quiet",
	"log-file":           "log_file",
	"metric":             "metric",
	"time-per-item":      "time_per_item",
	"repeats":            "repeats",
	"seed":               "seed",
	"taskset":            "taskset",
	"metrics-addr":       "metrics_addr",
	"archive":            "archive.enabled",
	"accelerator-suffix": "accelerator_suffix",
}

var rootCmd = &cobra.Command{
	Use:   "scalebench",
	Short: "Measure how benchmark binaries scale with input size and CPU count",
	Long: `scalebench runs benchmark binaries over a grid of input sizes and processor
counts, pinning each run to a set of cores, and reduces the repeated timings to
a median or mean per configuration.

Each binary is invoked as "binary <size> <processors>" and must print
"<label> <elapsed_seconds>" on stdout.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./scalebench.yaml)")
	pf.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	pf.BoolP("quiet", "q", false, "Suppress progress and log output on stderr")
	pf.String("log-file", "", "Also append JSON logs to this file")
	pf.StringP("metric", "m", "median", "Statistic over repeats: median or mean")
	pf.Bool("time-per-item", false, "Divide reduced times by the input size")
	pf.Bool("hide-partial", false, "Omit series with unavailable points from the report")
}

// initConfig loads configuration once flags are parsed, so bound flags take
// precedence over the environment and the config file.
func initConfig(cmd *cobra.Command, args []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if err := config.Load(cfgFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Current()
	if err != nil {
		return err
	}
	telemetry.InitLogger(cfg.Verbose, cfg.LogFile, cfg.Quiet)
	return nil
}

func hidePartial(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("hide-partial")
	return v
}

package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"scalebench/internal/archive"
	"scalebench/internal/benchmark"
	"scalebench/internal/host"
	"scalebench/internal/rangespec"
	"scalebench/internal/telemetry"
	"scalebench/internal/ui"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run SIZES PROCS BINARY...",
	Short: "Run binaries over sizes and processor counts and report timings",
	Long: `Run every binary for every size, processor count and repeat, once each, in
a random order. SIZES and PROCS are comma separated lists of values and ranges,
for example "1000,2000" or "1-8" or "0-64:16".

A processor count of 0 runs unpinned, 1 pins to CPU 1, and n > 1 pins to
CPUs 0..n-1. The timings are written to a JSON dataset that replay can load.`,
	Example: `  scalebench run 1000-5000:1000 0,1,2,4 ./sort-naive ./sort-parallel -r 5`,
	Args:    cobra.MinimumNArgs(3),
	RunE:    runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.IntP("repeats", "r", 1, "Number of runs per configuration")
	f.Uint64("seed", 0, "Seed for the execution order (0 picks one at random)")
	f.String("taskset", benchmark.DefaultTaskset, "Path of the taskset executable")
	f.StringP("output", "o", "", "Prefix for the dataset file name (default is the start time)")
	f.String("data", "comparison.json", "Dataset file name after the prefix")
	f.Bool("no-preflight", false, "Skip checking that pinned CPUs are available")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	f.Bool("archive", false, "Store the session in the archive database")
	f.String("note", "", "Free-form note stored with the archived session")
}

func runRun(cmd *cobra.Command, args []string) error {
	sizes, err := rangespec.Parse(rangespec.Text(args[0]))
	if err != nil {
		return fmt.Errorf("sizes: %w", err)
	}
	procs, err := rangespec.Parse(rangespec.Text(args[1]))
	if err != nil {
		return fmt.Errorf("processors: %w", err)
	}
	space := benchmark.Space{Binaries: args[2:], Sizes: sizes, Processors: procs, Repeats: cfg.Repeats}
	if err := space.Validate(); err != nil {
		return err
	}

	if skip, _ := cmd.Flags().GetBool("no-preflight"); !skip {
		allowed, err := allowedCPUs()
		if err != nil {
			slog.Warn("Could not read CPU affinity, skipping preflight", "error", err)
		} else if err := host.CheckProcessors(procs, allowed); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Info("Execution order seeded", "seed", seed)

	metrics := telemetry.NewMetrics()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := telemetry.StartMetricsServer(cfg.MetricsAddr, metrics.Registry); err != nil {
				slog.Warn("Metrics server stopped", "error", err)
			}
		}()
	}

	observer := ui.NopObserver
	if fd := os.Stderr.Fd(); !cfg.Quiet && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		observer = ui.NewProgress(cmd.ErrOrStderr())
	}

	started := now()
	sched := &benchmark.Scheduler{
		Runner:   newRunner(cfg.Taskset, slog.Default()),
		Observer: observer,
		Recorder: metrics,
		Rand:     rand.New(rand.NewPCG(seed, seed)),
		Logger:   slog.Default(),
	}
	timings, err := sched.Run(ctx, space)
	if err != nil {
		return err
	}

	prefix, _ := cmd.Flags().GetString("output")
	name, _ := cmd.Flags().GetString("data")
	path := benchmark.OutputName(started, prefix, name)
	if err := benchmark.Save(path, timings, space); err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Timings saved to %s\n\n", path)

	tab, err := benchmark.ReduceAll(timings, space, cfg.Metric, cfg.TimePerItem)
	if err != nil {
		return err
	}
	if err := ui.WriteTable(cmd.OutOrStdout(), tab, hidePartial(cmd)); err != nil {
		return err
	}

	if cfg.Archive.Enabled {
		note, _ := cmd.Flags().GetString("note")
		id, err := archiveSession(cmd, timings, started, note)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nArchived session %s\n", id)
	}
	return nil
}

func archiveSession(cmd *cobra.Command, timings *benchmark.Timings, started time.Time, note string) (string, error) {
	store, err := openArchive(cfg.Archive)
	if err != nil {
		return "", err
	}
	defer store.Close()

	info, err := describeHost()
	if err != nil {
		slog.Warn("Could not describe host", "error", err)
	}
	sess := archive.Session{
		ID:          uuid.NewString(),
		CreatedAt:   started,
		Hostname:    info.Hostname,
		CPUModel:    info.CPUModel,
		LogicalCPUs: info.LogicalCPUs,
		Statistic:   cfg.Metric.String(),
		Note:        note,
	}
	if err := store.SaveSession(cmd.Context(), sess, timings); err != nil {
		return "", err
	}
	return sess.ID, nil
}

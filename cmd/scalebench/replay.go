package main

import (
	"fmt"
	"log/slog"

	"scalebench/internal/benchmark"
	"scalebench/internal/rangespec"
	"scalebench/internal/ui"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay --load FILE [BINARY...]",
	Short: "Report on a saved dataset without running anything",
	Long: `Replay loads a dataset written by run and reduces it again, optionally
with a different statistic. Accelerator timings recorded with processors -1
can be merged in with --load-gpu: they are renamed with the accelerator suffix
and reported in the unpinned (0) column only.

Binaries default to every binary in the dataset; --sizes and --procs default
to the axes found in it.`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	f := replayCmd.Flags()
	f.String("load", "", "Dataset file to load (required)")
	f.String("load-gpu", "", "Accelerator dataset to merge in")
	f.String("sizes", "", "Sizes to report, as a range spec")
	f.String("procs", "", "Processor counts to report, as a range spec")
	f.Int("use-repeats", 0, "Reduce over the first N repeats (0 uses all)")
	f.String("accelerator-suffix", benchmark.DefaultAcceleratorSuffix, "Suffix appended to merged accelerator binaries")
	_ = replayCmd.MarkFlagRequired("load")
}

func runReplay(cmd *cobra.Command, args []string) error {
	load, _ := cmd.Flags().GetString("load")
	timings, err := benchmark.Load(load)
	if err != nil {
		return err
	}
	loaded := timings.Space()

	space := benchmark.Space{
		Binaries:   args,
		Sizes:      loaded.Sizes,
		Processors: loaded.Processors,
		Repeats:    loaded.Repeats,
	}
	if len(space.Binaries) == 0 {
		space.Binaries = loaded.Binaries
	}
	if spec, _ := cmd.Flags().GetString("sizes"); spec != "" {
		if space.Sizes, err = rangespec.Parse(rangespec.Text(spec)); err != nil {
			return fmt.Errorf("sizes: %w", err)
		}
	}
	if spec, _ := cmd.Flags().GetString("procs"); spec != "" {
		if space.Processors, err = rangespec.Parse(rangespec.Text(spec)); err != nil {
			return fmt.Errorf("processors: %w", err)
		}
	}
	if n, _ := cmd.Flags().GetInt("use-repeats"); n > 0 {
		space.Repeats = n
	}

	if gpu, _ := cmd.Flags().GetString("load-gpu"); gpu != "" {
		accel, err := benchmark.Load(gpu)
		if err != nil {
			return err
		}
		merged, names, err := benchmark.MergeAccelerator(timings, accel, space.Processors, cfg.AcceleratorSuffix)
		if err != nil {
			return fmt.Errorf("merge %s: %w", gpu, err)
		}
		slog.Debug("Merged accelerator timings", "binaries", names)
		timings = merged
		space.Binaries = append(space.Binaries, names...)
	}

	tab, err := benchmark.ReduceAll(timings, space, cfg.Metric, cfg.TimePerItem)
	if err != nil {
		return err
	}
	return ui.WriteTable(cmd.OutOrStdout(), tab, hidePartial(cmd))
}

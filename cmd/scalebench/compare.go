package main

import (
	"fmt"

	"scalebench/internal/benchmark"
	"scalebench/internal/ui"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare OLD NEW",
	Short: "Compare two datasets and flag regressions",
	Long: `Compare reduces both datasets with the configured statistic and prints the
percentage change of every configuration present in both. Changes beyond
--threshold are marked FAIL (slower) or IMPR (faster).`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Float64("threshold", 10.0, "Percentage threshold for regression warning")
	compareCmd.Flags().Bool("fail-on-regression", false, "Exit non-zero when any configuration regressed")
}

func reduceFile(path string) (*benchmark.Table, error) {
	t, err := benchmark.Load(path)
	if err != nil {
		return nil, err
	}
	return benchmark.ReduceAll(t, t.Space(), cfg.Metric, cfg.TimePerItem)
}

func runCompare(cmd *cobra.Command, args []string) error {
	prev, err := reduceFile(args[0])
	if err != nil {
		return err
	}
	curr, err := reduceFile(args[1])
	if err != nil {
		return err
	}

	comps := benchmark.Compare(prev, curr)
	if len(comps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No configurations in common.")
		return nil
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	regressions, err := ui.WriteComparisons(cmd.OutOrStdout(), comps, threshold)
	if err != nil {
		return err
	}
	if fail, _ := cmd.Flags().GetBool("fail-on-regression"); fail && regressions > 0 {
		return fmt.Errorf("%d configuration(s) regressed by more than %.1f%%", regressions, threshold)
	}
	return nil
}

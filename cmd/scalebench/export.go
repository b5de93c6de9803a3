package main

import (
	"io"

	"scalebench/internal/benchmark"

	"github.com/moby/sys/atomicwriter"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Convert a dataset to Go benchmark format for benchstat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := benchmark.Load(args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return benchmark.Export(cmd.OutOrStdout(), t)
		}
		w, err := atomicwriter.New(out, 0644)
		if err != nil {
			return err
		}
		return exportTo(w, t)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
}

func exportTo(w io.WriteCloser, t *benchmark.Timings) error {
	if err := benchmark.Export(w, t); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

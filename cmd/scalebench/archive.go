package main

import (
	"fmt"
	"text/tabwriter"

	"scalebench/internal/benchmark"
	"scalebench/internal/ui"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect sessions stored with run --archive",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := store.ListSessions(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No archived sessions.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tHOST\tCPUS\tSTATISTIC\tNOTE")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Hostname, s.LogicalCPUs, s.Statistic, s.Note)
		}
		return w.Flush()
	},
}

var archiveGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Report on an archived session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		sess, t, err := store.LoadSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		space := t.Space()

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := benchmark.Save(out, t, space); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timings saved to %s\n", out)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Session %s on %s (%s, %d CPUs)\n\n", sess.ID, sess.Hostname, sess.CPUModel, sess.LogicalCPUs)
		tab, err := benchmark.ReduceAll(t, space, cfg.Metric, cfg.TimePerItem)
		if err != nil {
			return err
		}
		return ui.WriteTable(cmd.OutOrStdout(), tab, hidePartial(cmd))
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveGetCmd)
	archiveListCmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions to list")
	archiveGetCmd.Flags().StringP("out", "o", "", "Also write the session as a dataset file")
}

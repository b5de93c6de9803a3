package ui

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"scalebench/internal/benchmark"
)

// ProcessorLabel names a processor bucket for display.
func ProcessorLabel(p int) string {
	switch p {
	case benchmark.AcceleratorProcessors:
		return "accel"
	case 0:
		return "all"
	default:
		return strconv.Itoa(p)
	}
}

// WriteTable renders one row per (binary, processors) series with a column per
// size. Unavailable cells print as n/a; with hidePartial such rows are skipped
// entirely, the way a plot omits a line with missing points.
func WriteTable(w io.Writer, tab *benchmark.Table, hidePartial bool) error {
	unit := "s"
	if tab.PerItem {
		unit = "s/item"
	}
	if _, err := fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s time (%s)", tab.Statistic, unit))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprint(tw, "BINARY\tPROCS")
	for _, n := range tab.Sizes {
		fmt.Fprintf(tw, "\t%d", n)
	}
	fmt.Fprintln(tw)

	for _, b := range tab.Binaries {
		for _, p := range tab.Processors {
			if _, ok := tab.Series(b, p); !ok && hidePartial {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s", b, ProcessorLabel(p))
			for _, n := range tab.Sizes {
				v := tab.Get(b, n, p)
				if !v.Available {
					fmt.Fprint(tw, "\tn/a")
					continue
				}
				fmt.Fprintf(tw, "\t%.6g", v.Seconds)
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}

// WriteComparisons prints each comparison with a PASS, FAIL or IMPR status
// against threshold (percent) and returns the number of regressions.
func WriteComparisons(w io.Writer, comps []benchmark.Comparison, threshold float64) (int, error) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "BINARY\tSIZE\tPROCS\tOLD\tNEW\tDIFF %\tSTATUS")

	regressions := 0
	for _, c := range comps {
		status := "PASS"
		if c.Diff > threshold {
			status = failStyle.Render("FAIL")
			regressions++
		} else if c.Diff < -threshold {
			status = improvedStyle.Render("IMPR")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.6g\t%.6g\t%+.2f%%\t%s\n",
			c.Binary, c.Size, ProcessorLabel(c.Processors), c.Prev.Seconds, c.Curr.Seconds, c.Diff, status)
	}
	return regressions, tw.Flush()
}

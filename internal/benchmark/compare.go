package benchmark

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Comparison is the change of one reduced cell between two tables.
type Comparison struct {
	Cell
	Prev Value
	Curr Value
	Diff float64 // percentage change, positive is slower; +Inf from a zero baseline
}

// Compare returns comparisons for cells available in both tables, ordered by
// binary, processors and size.
func Compare(prev, curr *Table) []Comparison {
	var comparisons []Comparison
	for c, cv := range curr.values {
		pv, ok := prev.values[c]
		if !ok || !pv.Available || !cv.Available {
			continue
		}
		comp := Comparison{Cell: c, Prev: pv, Curr: cv}
		switch {
		case pv.Seconds > 0:
			comp.Diff = (cv.Seconds - pv.Seconds) / pv.Seconds * 100
		case cv.Seconds > pv.Seconds:
			// Any slowdown from a zero baseline is unbounded.
			comp.Diff = math.Inf(1)
		}
		comparisons = append(comparisons, comp)
	}
	slices.SortFunc(comparisons, func(a, b Comparison) int {
		return cmp.Or(
			cmp.Compare(a.Binary, b.Binary),
			cmp.Compare(a.Processors, b.Processors),
			cmp.Compare(a.Size, b.Size),
		)
	})
	return comparisons
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s size=%d procs=%d: %+.2f%%", c.Binary, c.Size, c.Processors, c.Diff)
}

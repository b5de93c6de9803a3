package benchmark

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// ErrZeroSize means a per-item statistic was requested for size 0.
var ErrZeroSize = errors.New("per-item statistic needs a positive size")

// Statistic reduces repeated measurements to one value.
type Statistic int

const (
	Median Statistic = iota
	Mean
)

// ParseStatistic accepts "median" or "mean" in any case.
func ParseStatistic(s string) (Statistic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "median":
		return Median, nil
	case "mean":
		return Mean, nil
	}
	return 0, fmt.Errorf("unknown metric %q (want mean or median)", s)
}

func (s Statistic) String() string {
	switch s {
	case Median:
		return "median"
	case Mean:
		return "mean"
	}
	return fmt.Sprintf("Statistic(%d)", int(s))
}

// Apply reduces xs, which must not be empty.
func (s Statistic) Apply(xs []float64) float64 {
	switch s {
	case Mean:
		return stat.Mean(xs, nil)
	default:
		return median(xs)
	}
}

// median averages the two middle values of an even-length input.
func median(xs []float64) float64 {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Value is a reduced statistic. Available is false for combinations that
// contain placeholder samples; Seconds is meaningless then.
type Value struct {
	Seconds   float64
	Available bool
}

// Unavailable is the marker for inapplicable combinations.
var Unavailable = Value{}

// Reduce gathers the repeats of (binary, size, processors) and applies stat.
// With perItem the result is divided by size.
func Reduce(t *Timings, binary string, size, processors, repeats int, st Statistic, perItem bool) (Value, error) {
	if repeats < 1 {
		return Unavailable, fmt.Errorf("repeats must be at least 1, got %d", repeats)
	}
	if perItem && size == 0 {
		return Unavailable, fmt.Errorf("%s size=%d: %w", binary, size, ErrZeroSize)
	}

	xs := make([]float64, 0, repeats)
	applicable := true
	for r := range repeats {
		s, err := t.Must(Key{Binary: binary, Size: size, Processors: processors, Repeat: r})
		if err != nil {
			return Unavailable, err
		}
		if s.NotApplicable {
			applicable = false
			continue
		}
		xs = append(xs, s.Seconds)
	}
	if !applicable {
		return Unavailable, nil
	}

	v := st.Apply(xs)
	if perItem {
		v /= float64(size)
	}
	return Value{Seconds: v, Available: true}, nil
}

// Cell addresses one reduced value.
type Cell struct {
	Binary     string
	Size       int
	Processors int
}

// Table holds reduced values for a whole space along with its axes.
type Table struct {
	Binaries   []string
	Sizes      []int
	Processors []int
	Statistic  Statistic
	PerItem    bool

	values map[Cell]Value
}

// ReduceAll reduces every (binary, size, processors) cell of space.
func ReduceAll(t *Timings, space Space, st Statistic, perItem bool) (*Table, error) {
	tab := &Table{
		Binaries:   lo.Uniq(space.Binaries),
		Sizes:      lo.Uniq(space.Sizes),
		Processors: lo.Uniq(space.Processors),
		Statistic:  st,
		PerItem:    perItem,
		values:     make(map[Cell]Value),
	}
	for _, b := range tab.Binaries {
		for _, n := range tab.Sizes {
			for _, p := range tab.Processors {
				v, err := Reduce(t, b, n, p, space.Repeats, st, perItem)
				if err != nil {
					return nil, err
				}
				tab.values[Cell{b, n, p}] = v
			}
		}
	}
	return tab, nil
}

// Get returns the value of a cell, Unavailable when the cell is unknown.
func (tab *Table) Get(binary string, size, processors int) Value {
	return tab.values[Cell{binary, size, processors}]
}

// Series returns the values of binary at processors across Sizes. ok is false
// when any point is unavailable, in which case the line should not be drawn.
func (tab *Table) Series(binary string, processors int) (ys []float64, ok bool) {
	ys = make([]float64, 0, len(tab.Sizes))
	for _, n := range tab.Sizes {
		v := tab.Get(binary, n, processors)
		if !v.Available {
			return nil, false
		}
		ys = append(ys, v.Seconds)
	}
	return ys, true
}

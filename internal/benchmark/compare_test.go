package benchmark

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	space := Space{Binaries: []string{"b1"}, Sizes: []int{10}, Processors: []int{0, 2}, Repeats: 1}

	prev := NewTimings()
	require.NoError(t, prev.Record(Key{"b1", 10, 0, 0}, Measured(100)))
	require.NoError(t, prev.Record(Key{"b1", 10, 2, 0}, NotApplicable()))
	curr := NewTimings()
	require.NoError(t, curr.Record(Key{"b1", 10, 0, 0}, Measured(110)))
	require.NoError(t, curr.Record(Key{"b1", 10, 2, 0}, Measured(50)))

	prevTab, err := ReduceAll(prev, space, Median, false)
	require.NoError(t, err)
	currTab, err := ReduceAll(curr, space, Median, false)
	require.NoError(t, err)

	comps := Compare(prevTab, currTab)
	require.Len(t, comps, 1, "unavailable cells are not compared")

	c := comps[0]
	assert.Equal(t, Cell{"b1", 10, 0}, c.Cell)
	assert.InDelta(t, 10.0, c.Diff, 0.01)
	assert.Equal(t, "b1 size=10 procs=0: +10.00%", c.String())
}

func TestCompare_ZeroBaseline(t *testing.T) {
	space := Space{Binaries: []string{"noop"}, Sizes: []int{1, 2}, Processors: []int{0}, Repeats: 1}

	prev := NewTimings()
	require.NoError(t, prev.Record(Key{"noop", 1, 0, 0}, Measured(0)))
	require.NoError(t, prev.Record(Key{"noop", 2, 0, 0}, Measured(0)))
	curr := NewTimings()
	require.NoError(t, curr.Record(Key{"noop", 1, 0, 0}, Measured(0.5)))
	require.NoError(t, curr.Record(Key{"noop", 2, 0, 0}, Measured(0)))

	prevTab, err := ReduceAll(prev, space, Median, false)
	require.NoError(t, err)
	currTab, err := ReduceAll(curr, space, Median, false)
	require.NoError(t, err)

	comps := Compare(prevTab, currTab)
	require.Len(t, comps, 2)
	assert.True(t, math.IsInf(comps[0].Diff, 1), "slowdown from zero is a regression")
	assert.Equal(t, 0.0, comps[1].Diff)
}

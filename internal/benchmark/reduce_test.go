package benchmark

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeatsStore(t *testing.T, binary string, size, procs int, xs ...float64) *Timings {
	t.Helper()
	timings := NewTimings()
	for r, x := range xs {
		require.NoError(t, timings.Record(Key{binary, size, procs, r}, Measured(x)))
	}
	return timings
}

func TestReduce(t *testing.T) {
	timings := repeatsStore(t, "a", 10, 2, 1, 2, 3)

	v, err := Reduce(timings, "a", 10, 2, 3, Mean, false)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v.Seconds, 1e-12)
	assert.True(t, v.Available)

	v, err = Reduce(timings, "a", 10, 2, 3, Median, false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.Seconds)

	v, err = Reduce(timings, "a", 10, 2, 3, Mean, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, v.Seconds, 1e-12)
}

func TestReduce_EvenMedian(t *testing.T) {
	timings := repeatsStore(t, "a", 1, 0, 4, 1, 3, 2)
	v, err := Reduce(timings, "a", 1, 0, 4, Median, false)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v.Seconds)
}

func TestReduce_ZeroSizePerItem(t *testing.T) {
	timings := repeatsStore(t, "a", 0, 0, 1, 2, 3)
	_, err := Reduce(timings, "a", 0, 0, 3, Mean, true)
	assert.True(t, errors.Is(err, ErrZeroSize))

	v, err := Reduce(timings, "a", 0, 0, 3, Mean, false)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v.Seconds, 1e-12)
}

func TestReduce_MissingRepeat(t *testing.T) {
	timings := repeatsStore(t, "a", 10, 0, 1, 2)
	_, err := Reduce(timings, "a", 10, 0, 3, Median, false)
	assert.True(t, errors.Is(err, ErrMissingKey))
}

func TestReduce_NotApplicable(t *testing.T) {
	timings := repeatsStore(t, "a", 10, 0, 1)
	require.NoError(t, timings.Record(Key{"a", 10, 0, 1}, NotApplicable()))

	v, err := Reduce(timings, "a", 10, 0, 2, Mean, true)
	require.NoError(t, err)
	assert.Equal(t, Unavailable, v)
}

func TestParseStatistic(t *testing.T) {
	s, err := ParseStatistic("MEAN")
	require.NoError(t, err)
	assert.Equal(t, Mean, s)

	s, err = ParseStatistic("median")
	require.NoError(t, err)
	assert.Equal(t, Median, s)
	assert.Equal(t, "median", s.String())

	_, err = ParseStatistic("p99")
	assert.Error(t, err)
}

func TestReduceAll_Series(t *testing.T) {
	primary := NewTimings()
	space := Space{Binaries: []string{"sort"}, Sizes: []int{10, 20}, Processors: []int{0, 4}, Repeats: 1}
	for _, k := range space.Keys() {
		require.NoError(t, primary.Record(k, Measured(float64(k.Size+k.Processors))))
	}
	accel := NewTimings()
	require.NoError(t, accel.Record(Key{"sort", 10, -1, 0}, Measured(0.5)))
	require.NoError(t, accel.Record(Key{"sort", 20, -1, 0}, Measured(0.75)))

	merged, names, err := MergeAccelerator(primary, accel, space.Processors, "-gpu")
	require.NoError(t, err)
	space.Binaries = append(space.Binaries, names...)

	tab, err := ReduceAll(merged, space, Median, false)
	require.NoError(t, err)

	ys, ok := tab.Series("sort", 4)
	require.True(t, ok)
	assert.Equal(t, []float64{14, 24}, ys)

	ys, ok = tab.Series("sort-gpu", 0)
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 0.75}, ys)

	_, ok = tab.Series("sort-gpu", 4)
	assert.False(t, ok)
	assert.False(t, tab.Get("nope", 10, 0).Available)
}

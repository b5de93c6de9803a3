package benchmark

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimings_WriteOnce(t *testing.T) {
	timings := NewTimings()
	k := Key{Binary: "a", Size: 1, Processors: 0, Repeat: 0}
	require.NoError(t, timings.Record(k, Measured(1)))

	err := timings.Record(k, Measured(2))
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	s, _ := timings.Get(k)
	assert.Equal(t, 1.0, s.Seconds, "first value is kept")
}

func TestTimings_Space(t *testing.T) {
	space := Space{Binaries: []string{"b", "a"}, Sizes: []int{30, 10}, Processors: []int{4, 0}, Repeats: 3}
	timings := fullTimings(t, space)

	got := timings.Space()
	assert.Equal(t, []string{"a", "b"}, got.Binaries)
	assert.Equal(t, []int{10, 30}, got.Sizes)
	assert.Equal(t, []int{0, 4}, got.Processors)
	assert.Equal(t, 3, got.Repeats)
	assert.Equal(t, []string{"a", "b"}, timings.Binaries())
}

func TestTimings_KeysSorted(t *testing.T) {
	timings := NewTimings()
	require.NoError(t, timings.Record(Key{"b", 1, 0, 0}, Measured(1)))
	require.NoError(t, timings.Record(Key{"a", 2, 0, 0}, Measured(1)))
	require.NoError(t, timings.Record(Key{"a", 1, 4, 0}, Measured(1)))
	require.NoError(t, timings.Record(Key{"a", 1, 0, 1}, Measured(1)))

	assert.Equal(t, []Key{{"a", 1, 0, 1}, {"a", 2, 0, 0}, {"a", 1, 4, 0}, {"b", 1, 0, 0}}, timings.Keys())
}

func TestTimings_CloneIsIndependent(t *testing.T) {
	timings := NewTimings()
	require.NoError(t, timings.Record(Key{"a", 1, 0, 0}, Measured(1)))
	c := timings.Clone()
	require.NoError(t, c.Record(Key{"a", 2, 0, 0}, Measured(1)))

	assert.Equal(t, 1, timings.Len())
	assert.False(t, timings.Equal(c))
}

func TestTimings_Covers(t *testing.T) {
	space := Space{Binaries: []string{"a"}, Sizes: []int{1, 2}, Processors: []int{0}, Repeats: 1}
	timings := NewTimings()
	require.NoError(t, timings.Record(Key{"a", 1, 0, 0}, Measured(1)))

	err := timings.Covers(space)
	assert.True(t, errors.Is(err, ErrMissingKey))
	assert.Contains(t, err.Error(), "size=2")
}

func TestSample_JSON(t *testing.T) {
	b, err := NotApplicable().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var s Sample
	require.NoError(t, s.UnmarshalJSON([]byte("0")))
	assert.Equal(t, Measured(0), s, "a real zero stays a measurement")
	require.NoError(t, s.UnmarshalJSON([]byte(" null ")))
	assert.True(t, s.NotApplicable)
}

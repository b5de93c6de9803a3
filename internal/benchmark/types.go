package benchmark

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// AcceleratorProcessors marks timings recorded on an accelerator device,
// where no CPU count applies.
const AcceleratorProcessors = -1

var (
	// ErrMissingKey means a key the caller expected is not in the store.
	ErrMissingKey = errors.New("missing measurement")
	// ErrDuplicateKey means a key was recorded twice.
	ErrDuplicateKey = errors.New("measurement already recorded")
)

// Key identifies one measurement.
type Key struct {
	Binary     string
	Size       int
	Processors int
	Repeat     int
}

func (k Key) String() string {
	return fmt.Sprintf("%s size=%d procs=%d #%d", k.Binary, k.Size, k.Processors, k.Repeat)
}

func compareKeys(a, b Key) int {
	return cmp.Or(
		cmp.Compare(a.Binary, b.Binary),
		cmp.Compare(a.Processors, b.Processors),
		cmp.Compare(a.Size, b.Size),
		cmp.Compare(a.Repeat, b.Repeat),
	)
}

// Sample is a single elapsed time in seconds. NotApplicable marks cells that
// exist only to fill a key space, such as accelerator timings broadcast into
// CPU buckets; they are never real measurements.
type Sample struct {
	Seconds       float64
	NotApplicable bool
}

// Measured returns an applicable sample.
func Measured(seconds float64) Sample { return Sample{Seconds: seconds} }

// NotApplicable returns a placeholder sample.
func NotApplicable() Sample { return Sample{NotApplicable: true} }

// MarshalJSON encodes a placeholder as null and a measurement as a number.
func (s Sample) MarshalJSON() ([]byte, error) {
	if s.NotApplicable {
		return []byte("null"), nil
	}
	return json.Marshal(s.Seconds)
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = NotApplicable()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	*s = Measured(f)
	return nil
}

// Space is the cross product binaries x sizes x processors x [0, Repeats).
type Space struct {
	Binaries   []string
	Sizes      []int
	Processors []int
	Repeats    int
}

// Keys enumerates the space. Repeated axis values are collapsed so every key
// appears once, in binary, size, processors, repeat order.
func (s Space) Keys() []Key {
	binaries := lo.Uniq(s.Binaries)
	sizes := lo.Uniq(s.Sizes)
	procs := lo.Uniq(s.Processors)

	keys := make([]Key, 0, len(binaries)*len(sizes)*len(procs)*max(s.Repeats, 0))
	for _, b := range binaries {
		for _, n := range sizes {
			for _, p := range procs {
				for r := range s.Repeats {
					keys = append(keys, Key{Binary: b, Size: n, Processors: p, Repeat: r})
				}
			}
		}
	}
	return keys
}

// Validate checks that the space can be scheduled.
func (s Space) Validate() error {
	switch {
	case len(s.Binaries) == 0:
		return errors.New("no binaries")
	case len(s.Sizes) == 0:
		return errors.New("no sizes")
	case len(s.Processors) == 0:
		return errors.New("no processor counts")
	case s.Repeats < 1:
		return fmt.Errorf("repeats must be at least 1, got %d", s.Repeats)
	}
	for _, n := range s.Sizes {
		if n < 0 {
			return fmt.Errorf("negative size %d", n)
		}
	}
	for _, p := range s.Processors {
		if p < AcceleratorProcessors {
			return fmt.Errorf("invalid processor count %d", p)
		}
	}
	return nil
}

// Timings is the sparse store of measurements. Keys are written once.
// The zero value is not usable; call NewTimings.
type Timings struct {
	samples map[Key]Sample
}

func NewTimings() *Timings {
	return &Timings{samples: make(map[Key]Sample)}
}

// Record stores s under k. Recording the same key twice is an error.
func (t *Timings) Record(k Key, s Sample) error {
	if _, ok := t.samples[k]; ok {
		return fmt.Errorf("%s: %w", k, ErrDuplicateKey)
	}
	t.samples[k] = s
	return nil
}

// Get returns the sample for k.
func (t *Timings) Get(k Key) (Sample, bool) {
	s, ok := t.samples[k]
	return s, ok
}

// Must returns the sample for k or ErrMissingKey.
func (t *Timings) Must(k Key) (Sample, error) {
	s, ok := t.samples[k]
	if !ok {
		return Sample{}, fmt.Errorf("%s: %w", k, ErrMissingKey)
	}
	return s, nil
}

func (t *Timings) Len() int { return len(t.samples) }

// Keys returns all keys sorted by binary, processors, size and repeat.
func (t *Timings) Keys() []Key {
	keys := make([]Key, 0, len(t.samples))
	for k := range t.samples {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Binaries returns the distinct binaries, sorted.
func (t *Timings) Binaries() []string {
	return sortedUniq(lo.MapToSlice(t.samples, func(k Key, _ Sample) string { return k.Binary }))
}

// Space derives the key space covered by the store: every axis value that
// appears, with Repeats one past the highest repeat index.
func (t *Timings) Space() Space {
	var s Space
	var sizes, procs []int
	for k := range t.samples {
		sizes = append(sizes, k.Size)
		procs = append(procs, k.Processors)
		s.Repeats = max(s.Repeats, k.Repeat+1)
	}
	s.Binaries = t.Binaries()
	s.Sizes = sortedUniq(sizes)
	s.Processors = sortedUniq(procs)
	return s
}

// Covers returns an error wrapping ErrMissingKey naming the first key of
// space absent from t.
func (t *Timings) Covers(space Space) error {
	for _, k := range space.Keys() {
		if _, ok := t.samples[k]; !ok {
			return fmt.Errorf("%s: %w", k, ErrMissingKey)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (t *Timings) Clone() *Timings {
	c := NewTimings()
	for k, s := range t.samples {
		c.samples[k] = s
	}
	return c
}

// Equal reports whether both stores hold exactly the same keys and samples.
func (t *Timings) Equal(o *Timings) bool {
	if len(t.samples) != len(o.samples) {
		return false
	}
	for k, s := range t.samples {
		if other, ok := o.samples[k]; !ok || other != s {
			return false
		}
	}
	return true
}

func sortedUniq[T cmp.Ordered](v []T) []T {
	v = lo.Uniq(v)
	slices.Sort(v)
	return v
}

package benchmark

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// DefaultAcceleratorSuffix is appended to accelerator binary names on merge.
const DefaultAcceleratorSuffix = "-gpu"

var (
	// ErrNotAccelerator means an accelerator dataset holds CPU measurements.
	ErrNotAccelerator = errors.New("accelerator dataset contains a CPU measurement")
	// ErrNoBaselineBucket means processor count 0 was not requested.
	ErrNoBaselineBucket = errors.New("processor count 0 is required to host accelerator timings")
)

// MergeAccelerator combines primary with accelerator timings recorded without
// a CPU dimension. Each accelerator binary is renamed with suffix and its
// samples are broadcast over processors: the 0 bucket receives the measured
// sample, every other bucket a NotApplicable placeholder.
//
// primary is not modified. The sorted names of the renamed binaries are
// returned alongside the merged store.
func MergeAccelerator(primary, accel *Timings, processors []int, suffix string) (*Timings, []string, error) {
	if !slices.Contains(processors, 0) {
		return nil, nil, ErrNoBaselineBucket
	}
	keys := accel.Keys()
	for _, k := range keys {
		if k.Processors != AcceleratorProcessors {
			return nil, nil, fmt.Errorf("%s: %w", k, ErrNotAccelerator)
		}
	}

	merged := primary.Clone()
	var binaries []string
	for _, k := range keys {
		s, _ := accel.Get(k)
		name := k.Binary + suffix
		binaries = append(binaries, name)
		for _, p := range lo.Uniq(processors) {
			cell := NotApplicable()
			if p == 0 {
				cell = s
			}
			mk := Key{Binary: name, Size: k.Size, Processors: p, Repeat: k.Repeat}
			if err := merged.Record(mk, cell); err != nil {
				return nil, nil, err
			}
		}
	}
	return merged, sortedUniq(binaries), nil
}

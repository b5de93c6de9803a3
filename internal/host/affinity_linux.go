//go:build linux

package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// cpuSetSize is the number of CPU ids a unix.CPUSet can hold.
const cpuSetSize = 1024

// AllowedCPUs returns the CPU ids in the affinity mask of this process.
func AllowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("sched_getaffinity: %w", err)
	}
	ids := make([]int, 0, set.Count())
	for c := 0; c < cpuSetSize && len(ids) < cap(ids); c++ {
		if set.IsSet(c) {
			ids = append(ids, c)
		}
	}
	return ids, nil
}

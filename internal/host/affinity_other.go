//go:build !linux

package host

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
)

// AllowedCPUs returns every logical CPU; affinity masks are only read on Linux.
func AllowedCPUs() ([]int, error) {
	n, err := cpu.Counts(true)
	if err != nil {
		return nil, fmt.Errorf("count cpus: %w", err)
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

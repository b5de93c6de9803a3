// Package host describes the machine benchmarks run on and checks that the
// requested CPU pinning is possible.
package host

import (
	"fmt"
	"os"
	"slices"

	"github.com/shirou/gopsutil/v3/cpu"
)

// Info is recorded with archived sessions.
type Info struct {
	Hostname    string
	CPUModel    string
	LogicalCPUs int
	PhysicalCPU int
}

// Describe collects host facts. Missing CPU details are left empty rather
// than failing, since some virtual machines do not expose them.
func Describe() (Info, error) {
	var info Info
	name, err := os.Hostname()
	if err != nil {
		return info, fmt.Errorf("hostname: %w", err)
	}
	info.Hostname = name

	if n, err := cpu.Counts(true); err == nil {
		info.LogicalCPUs = n
	}
	if n, err := cpu.Counts(false); err == nil {
		info.PhysicalCPU = n
	}
	if stats, err := cpu.Info(); err == nil && len(stats) > 0 {
		info.CPUModel = stats[0].ModelName
	}
	return info, nil
}

// CheckProcessors verifies that every processor count can be pinned given the
// CPU ids the process may run on. Counts above one need cores 0..n-1 and a
// count of one needs core 1.
func CheckProcessors(counts []int, allowed []int) error {
	for _, p := range counts {
		switch {
		case p > 1:
			for c := range p {
				if !slices.Contains(allowed, c) {
					return fmt.Errorf("processor count %d needs CPU %d, which is not available (allowed: %v)", p, c, allowed)
				}
			}
		case p == 1:
			if !slices.Contains(allowed, 1) {
				return fmt.Errorf("processor count 1 pins to CPU 1, which is not available (allowed: %v)", allowed)
			}
		}
	}
	return nil
}

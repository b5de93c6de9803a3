package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"scalebench/internal/benchmark"
	"scalebench/internal/host"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// fakeRunner reports size / (1000 * max(processors, 1)) seconds.
type fakeRunner struct {
	calls []benchmark.Key
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, binary string, size, processors int) (float64, error) {
	f.calls = append(f.calls, benchmark.Key{Binary: binary, Size: size, Processors: processors})
	if f.err != nil {
		return 0, f.err
	}
	return float64(size) / (1000 * float64(max(processors, 1))), nil
}

// withFakes installs a fake runner and host probes for the duration of t.
func withFakes(t *testing.T) *fakeRunner {
	t.Helper()
	fr := &fakeRunner{}

	oldRunner, oldAllowed, oldDescribe, oldNow := newRunner, allowedCPUs, describeHost, now
	t.Cleanup(func() {
		newRunner, allowedCPUs, describeHost, now = oldRunner, oldAllowed, oldDescribe, oldNow
	})

	newRunner = func(string, *slog.Logger) benchmark.Runner { return fr }
	allowedCPUs = func() ([]int, error) { return []int{0, 1, 2, 3}, nil }
	describeHost = func() (host.Info, error) {
		return host.Info{Hostname: "bench01", CPUModel: "Test CPU", LogicalCPUs: 4}, nil
	}
	now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return fr
}

var errBoom = errors.New("boom")

// executeCommand runs root with args against a clean configuration and
// returns everything written to stdout and stderr.
func executeCommand(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetFlags(root)
	t.Cleanup(viper.Reset)

	root.SetArgs(append(args, "--quiet"))
	b := new(bytes.Buffer)
	root.SetOut(b)
	root.SetErr(b)
	err := root.Execute()
	return b.String(), err
}

// resetFlags resets all flags to their default values.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

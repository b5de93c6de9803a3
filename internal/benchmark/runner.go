package benchmark

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Runner runs a benchmark binary once and returns the elapsed time it reports.
type Runner interface {
	Run(ctx context.Context, binary string, size, processors int) (float64, error)
}

// execCommand allows tests to substitute a helper process.
var execCommand = exec.CommandContext

// DefaultTaskset is the affinity tool used when none is configured.
const DefaultTaskset = "taskset"

// AffinityRunner runs binaries pinned to CPUs with taskset.
type AffinityRunner struct {
	Taskset string
	Logger  *slog.Logger
}

func NewAffinityRunner(taskset string) *AffinityRunner {
	if taskset == "" {
		taskset = DefaultTaskset
	}
	return &AffinityRunner{Taskset: taskset, Logger: slog.Default()}
}

// Invocation returns the argv for one run.
//
// More than one processor pins to cores 0 through processors-1. A single
// processor pins to core 1, keeping core 0 free for the harness itself.
// Zero or negative counts run unrestricted.
func (r *AffinityRunner) Invocation(binary string, size, processors int) []string {
	args := []string{binary, strconv.Itoa(size), strconv.Itoa(processors)}
	switch {
	case processors > 1:
		return append([]string{r.Taskset, "-c", fmt.Sprintf("0-%d", processors-1)}, args...)
	case processors == 1:
		return append([]string{r.Taskset, "-c", "1"}, args...)
	default:
		return args
	}
}

// RunError reports a benchmark process that could not be started or exited
// with a non-zero status.
type RunError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("run %s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr:\n" + e.Stderr
	}
	return msg
}

func (e *RunError) Unwrap() error { return e.Err }

// OutputError reports benchmark output that is not "<label> <seconds>".
type OutputError struct {
	Output string
	Reason string
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("malformed benchmark output %q: %s", e.Output, e.Reason)
}

// Run executes one invocation and blocks until it exits.
func (r *AffinityRunner) Run(ctx context.Context, binary string, size, processors int) (float64, error) {
	argv := r.Invocation(binary, size, processors)
	command := shellquote.Join(argv...)
	r.logger().Debug("running benchmark", "command", command)

	cmd := execCommand(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, &RunError{Command: command, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}

	seconds, err := ParseOutput(stdout.Bytes())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", command, err)
	}
	return seconds, nil
}

func (r *AffinityRunner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ParseOutput parses benchmark output of exactly two whitespace separated
// tokens, an ignored label followed by the elapsed seconds.
func ParseOutput(out []byte) (float64, error) {
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, &OutputError{Output: string(out), Reason: fmt.Sprintf("want 2 fields, got %d", len(fields))}
	}
	value := fields[1]
	if strings.Trim(value, "0123456789.eE+-") != "" {
		return 0, &OutputError{Output: string(out), Reason: "elapsed time is not a decimal number"}
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, &OutputError{Output: string(out), Reason: "elapsed time is not a number"}
	}
	if seconds < 0 {
		return 0, &OutputError{Output: string(out), Reason: "elapsed time is negative"}
	}
	return seconds, nil
}

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Observer follows a scheduled session. Done is called after a run completes
// and before the next one starts, so it never overlaps a measurement.
type Observer interface {
	Start(plan []Key)
	Done(k Key, seconds float64)
	Finish()
}

// Recorder receives per-run telemetry.
type Recorder interface {
	ObserveRun(k Key, seconds float64)
	RunFailed(k Key, reason string)
	SetPending(n int)
}

// Scheduler runs every key of a space once, in shuffled order.
type Scheduler struct {
	Runner   Runner
	Observer Observer   // optional
	Recorder Recorder   // optional
	Rand     *rand.Rand // optional, seeded randomly when nil
	Logger   *slog.Logger
}

// Plan returns the shuffled execution order for space.
//
// Running configurations in a fixed order would tie thermal and cache drift
// to particular sizes and processor counts; a single uniform shuffle
// decorrelates them.
func (s *Scheduler) Plan(space Space) []Key {
	plan := space.Keys()
	rng := s.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	rng.Shuffle(len(plan), func(i, j int) { plan[i], plan[j] = plan[j], plan[i] })
	return plan
}

// Run executes the session serially and returns the populated store. The
// first failure aborts the session; there are no retries.
func (s *Scheduler) Run(ctx context.Context, space Space) (*Timings, error) {
	if err := space.Validate(); err != nil {
		return nil, err
	}
	if s.Runner == nil {
		return nil, errors.New("scheduler has no runner")
	}
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}

	plan := s.Plan(space)
	log.Info("starting session", "runs", len(plan), "binaries", len(space.Binaries),
		"sizes", len(space.Sizes), "processors", space.Processors, "repeats", space.Repeats)
	if s.Observer != nil {
		s.Observer.Start(plan)
		defer s.Observer.Finish()
	}

	started := time.Now()
	timings := NewTimings()
	for i, k := range plan {
		if s.Recorder != nil {
			s.Recorder.SetPending(len(plan) - i)
		}
		seconds, err := s.Runner.Run(ctx, k.Binary, k.Size, k.Processors)
		if err != nil {
			if s.Recorder != nil {
				s.Recorder.RunFailed(k, failureReason(ctx, err))
			}
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		if err := timings.Record(k, Measured(seconds)); err != nil {
			return nil, err
		}
		if s.Recorder != nil {
			s.Recorder.ObserveRun(k, seconds)
		}
		if s.Observer != nil {
			s.Observer.Done(k, seconds)
		}
	}
	if s.Recorder != nil {
		s.Recorder.SetPending(0)
	}

	if err := timings.Covers(space); err != nil {
		return nil, err
	}
	log.Info("session complete", "runs", timings.Len(), "elapsed", time.Since(started).Round(time.Millisecond))
	return timings, nil
}

func failureReason(ctx context.Context, err error) string {
	var runErr *RunError
	var outErr *OutputError
	switch {
	case ctx.Err() != nil:
		return "canceled"
	case errors.As(err, &outErr):
		return "output"
	case errors.As(err, &runErr):
		return "exit"
	default:
		return "other"
	}
}

package telemetry

import (
	"testing"

	"scalebench/internal/benchmark"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Recorder(t *testing.T) {
	m := NewMetrics()
	var rec benchmark.Recorder = m

	k := benchmark.Key{Binary: "./sort", Size: 10, Processors: 4}
	rec.ObserveRun(k, 0.5)
	rec.ObserveRun(k, 0.25)
	rec.RunFailed(k, "exit")
	rec.SetPending(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("./sort", "4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunFailures.WithLabelValues("./sort", "exit")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RunsPending))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestNewMetrics_PrivateRegistry(t *testing.T) {
	// Two instances must not collide on registration.
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

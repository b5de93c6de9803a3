package telemetry

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"scalebench/internal/benchmark"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements benchmark.Recorder on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal   *prometheus.CounterVec
	RunFailures *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	RunsPending prometheus.Gauge
}

// NewMetrics creates and registers the harness metrics.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalebench_runs_total",
			Help: "Benchmark runs completed",
		},
		[]string{"binary", "processors"},
	)
	m.RunFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalebench_run_failures_total",
			Help: "Benchmark runs that failed",
		},
		[]string{"binary", "reason"},
	)
	m.RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scalebench_run_duration_seconds",
			Help:    "Elapsed time reported by benchmark binaries",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		},
		[]string{"binary", "processors"},
	)
	m.RunsPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scalebench_runs_pending",
			Help: "Runs left in the current session",
		},
	)

	m.Registry.MustRegister(m.RunsTotal, m.RunFailures, m.RunDuration, m.RunsPending)
	return m
}

func (m *Metrics) ObserveRun(k benchmark.Key, seconds float64) {
	procs := strconv.Itoa(k.Processors)
	m.RunsTotal.WithLabelValues(k.Binary, procs).Inc()
	m.RunDuration.WithLabelValues(k.Binary, procs).Observe(seconds)
}

func (m *Metrics) RunFailed(k benchmark.Key, reason string) {
	m.RunFailures.WithLabelValues(k.Binary, reason).Inc()
}

func (m *Metrics) SetPending(n int) {
	m.RunsPending.Set(float64(n))
}

// StartMetricsServer serves the registry on addr until the listener fails.
// It returns nil once the server is closed.
func StartMetricsServer(addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	slog.Info("Starting metrics server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

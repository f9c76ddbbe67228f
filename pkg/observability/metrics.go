package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the simulator collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	RunsStarted *prometheus.CounterVec
	Steps       *prometheus.CounterVec
	Halts       *prometheus.CounterVec
	RunLength   *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors, plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_started_total",
				Help: "Total number of initialized runs",
			},
			[]string{"machine"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_steps_total",
				Help: "Total number of applied transitions",
			},
			[]string{"machine"},
		),
		Halts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_halts_total",
				Help: "Total number of halted runs",
			},
			[]string{"machine", "outcome", "reason"},
		),
		RunLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_run_length_steps",
				Help:    "Step count of runs at the moment they halt",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"machine"},
		),
	}
	m.Registry.MustRegister(
		m.RunsStarted, m.Steps, m.Halts, m.RunLength,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks records events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.RunsStarted.WithLabelValues(e.Machine).Inc()
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Machine).Inc()
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			m.Halts.WithLabelValues(e.Machine, string(e.Outcome), string(e.Reason)).Inc()
			m.RunLength.WithLabelValues(e.Machine).Observe(float64(e.StepCount))
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

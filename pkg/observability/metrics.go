package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the controller hooks.
type Metrics struct {
	Steps       prometheus.Counter
	Halts       prometheus.Counter
	ModeChanges *prometheus.CounterVec
	StateVisits *prometheus.CounterVec
	RunSteps    prometheus.Histogram
	Mode        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Total number of transitions applied",
		}),
		Halts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_halts_total",
			Help: "Total number of runs that halted",
		}),
		ModeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_mode_changes_total",
				Help: "Run mode changes by target mode",
			},
			[]string{"mode"},
		),
		StateVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_state_visits_total",
				Help: "Times each state was entered by a transition",
			},
			[]string{"state"},
		),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_steps",
			Help:    "Steps taken by runs that halted",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		Mode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "turing_mode",
			Help: "Current run mode (0 stopped, 1 playing, 2 paused)",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Steps, m.Halts, m.ModeChanges, m.StateVisits, m.RunSteps, m.Mode)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeChange: func(_ context.Context, e *domain.ModeEvent) {
			m.ModeChanges.WithLabelValues(e.To.String()).Inc()
			m.Mode.Set(float64(e.To))
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.Inc()
			m.StateVisits.WithLabelValues(strconv.Itoa(e.Transition.To)).Inc()
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			m.Halts.Inc()
			m.RunSteps.Observe(float64(e.Steps))
		},
	}
}

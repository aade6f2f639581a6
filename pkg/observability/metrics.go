package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/roomread/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the runner's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	sessions    *prometheus.CounterVec
	answers     *prometheus.CounterVec
	steps       *prometheus.CounterVec
	completions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewMetrics registers the runner collectors plus the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomread_sessions_loaded_total",
			Help: "Sessions whose content finished loading",
		}, []string{"mode", "category"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomread_answers_total",
			Help: "Option selections by correctness",
		}, []string{"category", "correct"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomread_steps_total",
			Help: "Blocks advanced past",
		}, []string{"mode"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomread_completions_total",
			Help: "Sessions completed",
		}, []string{"mode", "category"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomread_load_failures_total",
			Help: "Sessions that failed to load content",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.sessions, m.answers, m.steps, m.completions, m.failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(_ context.Context, e *domain.StepEvent) {
			m.sessions.WithLabelValues(string(e.Key.Mode), e.Key.Category).Inc()
		},
		OnSelect: func(_ context.Context, e *domain.AnswerEvent) {
			m.answers.WithLabelValues(e.Key.Category, strconv.FormatBool(e.Correct)).Inc()
		},
		OnAdvance: func(_ context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(string(e.Key.Mode)).Inc()
		},
		OnComplete: func(_ context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(string(e.Key.Mode)).Inc()
			m.completions.WithLabelValues(string(e.Key.Mode), e.Key.Category).Inc()
		},
		OnFailure: func(_ context.Context, e *domain.FailureEvent) {
			m.failures.WithLabelValues(string(e.Kind)).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

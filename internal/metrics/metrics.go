package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	turns       *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
}

// New registers all collectors on a dedicated registry so tests can build
// as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_turns_total",
			Help: "Quiz turns processed, by progression mode and outcome.",
		}, []string{"mode", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_question_fallbacks_total",
			Help: "Generated questions replaced by the canned fallback.",
		}, []string{"quiz_type"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_llm_requests_total",
			Help: "LLM calls by provider, purpose and outcome.",
		}, []string{"provider", "purpose", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quiz_llm_request_duration_seconds",
			Help:    "LLM call latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"provider", "purpose"}),
	}
	reg.MustRegister(m.turns, m.fallbacks, m.llmRequests, m.llmLatency)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTurn counts a processed turn. A nil receiver is a no-op.
func (m *Metrics) ObserveTurn(mode, outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(mode, outcome).Inc()
}

// ObserveFallback counts a canned-question substitution.
func (m *Metrics) ObserveFallback(quizType string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(quizType).Inc()
}

// ObserveLLM records one model call.
func (m *Metrics) ObserveLLM(provider, purpose string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmRequests.WithLabelValues(provider, purpose, outcome).Inc()
	m.llmLatency.WithLabelValues(provider, purpose).Observe(elapsed.Seconds())
}

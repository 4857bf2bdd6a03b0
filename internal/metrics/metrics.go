package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "interview"

// Metrics counts interview lifecycle events. A nil *Metrics ignores every call.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	SessionsEnded     prometheus.Counter
	AnswersScored     prometheus.Counter
	ScorerFallbacks   prometheus.Counter
	CountdownExpiries prometheus.Counter
}

// NewMetrics registers the counters on a registry of their own, so several
// services (and tests) can live in one process.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	return &Metrics{
		registry:          registry,
		SessionsStarted:   counter("sessions_started_total", "Interviews started or restarted."),
		SessionsCompleted: counter("sessions_completed_total", "Interviews that reached the last answer."),
		SessionsEnded:     counter("sessions_ended_total", "Sessions ended and removed."),
		AnswersScored:     counter("answers_scored_total", "Answers recorded with a score."),
		ScorerFallbacks:   counter("scorer_fallbacks_total", "Answers that got the fallback score."),
		CountdownExpiries: counter("countdown_expiries_total", "Questions answered by the countdown running out."),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

func (m *Metrics) IncrementSessionsCompleted() {
	if m == nil {
		return
	}
	m.SessionsCompleted.Inc()
}

func (m *Metrics) IncrementSessionsEnded() {
	if m == nil {
		return
	}
	m.SessionsEnded.Inc()
}

// IncrementAnswerScored records one scored answer; fallback marks a scorer failure.
func (m *Metrics) IncrementAnswerScored(fallback bool) {
	if m == nil {
		return
	}
	m.AnswersScored.Inc()
	if fallback {
		m.ScorerFallbacks.Inc()
	}
}

func (m *Metrics) IncrementCountdownExpiries() {
	if m == nil {
		return
	}
	m.CountdownExpiries.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

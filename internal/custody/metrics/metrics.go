// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "custody"

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
// Services take a *Metrics so tests can leave it out.
type Metrics struct {
	registry *prometheus.Registry

	LoginAttempts      *prometheus.CounterVec
	CustodyTransitions *prometheus.CounterVec
	RequestsSubmitted  prometheus.Counter
	RequestDecisions   *prometheus.CounterVec
	AuthzDenials       *prometheus.CounterVec
	SessionsRevoked    prometheus.Counter
	StoreFlushErrors   prometheus.Counter
}

// New registers every collector on a fresh registry, plus the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		CustodyTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "custody_transitions_total",
			Help:      "Certificate status changes by resulting status.",
		}, []string{"status"}),
		RequestsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_submitted_total",
			Help:      "Release requests submitted by students.",
		}),
		RequestDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_decisions_total",
			Help:      "Release request decisions by outcome.",
		}, []string{"decision"}),
		AuthzDenials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_denials_total",
			Help:      "Operations refused by the access policy.",
		}, []string{"operation"}),
		SessionsRevoked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_revoked_total",
			Help:      "Session tokens revoked by logout.",
		}),
		StoreFlushErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_flush_errors_total",
			Help:      "Transactions that failed to persist.",
		}),
	}
}

// Handler serves this registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Transition(status string) {
	if m == nil {
		return
	}
	m.CustodyTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) Submitted() {
	if m == nil {
		return
	}
	m.RequestsSubmitted.Inc()
}

func (m *Metrics) Decision(decision string) {
	if m == nil {
		return
	}
	m.RequestDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) Denied(operation string) {
	if m == nil {
		return
	}
	m.AuthzDenials.WithLabelValues(operation).Inc()
}

func (m *Metrics) Revoked() {
	if m == nil {
		return
	}
	m.SessionsRevoked.Inc()
}

func (m *Metrics) FlushFailed() {
	if m == nil {
		return
	}
	m.StoreFlushErrors.Inc()
}

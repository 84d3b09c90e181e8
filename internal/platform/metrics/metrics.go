// Package metrics holds the Prometheus instruments shared by the campus services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for one service process.
type Metrics struct {
	AuthFailures prometheus.Counter
	RowsCreated  *prometheus.CounterVec

	OutboundAttempts  *prometheus.CounterVec
	CircuitRejections *prometheus.CounterVec
	CircuitOpened     *prometheus.CounterVec
	VerifyOutcomes    *prometheus.CounterVec
}

// New creates and registers all metrics under the given service prefix
// (e.g. "campus_teacher").
func New(prefix string) *Metrics {
	return &Metrics{
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_auth_failures_total",
			Help: "Total number of rejected credentials (401/403)",
		}),
		RowsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_rows_created_total",
			Help: "Total number of rows created, by entity",
		}, []string{"entity"}),
		OutboundAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_outbound_attempts_total",
			Help: "Total outbound HTTP attempts, by target and result",
		}, []string{"target", "result"}),
		CircuitRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_circuit_rejections_total",
			Help: "Calls rejected locally because the target circuit was open",
		}, []string{"target"}),
		CircuitOpened: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_circuit_opened_total",
			Help: "Times a target circuit transitioned to open",
		}, []string{"target"}),
		VerifyOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_verification_outcomes_total",
			Help: "Cross-service existence verification outcomes, by target",
		}, []string{"target", "outcome"}),
	}
}

// The increment helpers below are nil-safe so packages under test can run
// without a registered metrics set.

func (m *Metrics) IncAuthFailure() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

func (m *Metrics) IncRowsCreated(entity string) {
	if m == nil {
		return
	}
	m.RowsCreated.WithLabelValues(entity).Inc()
}

func (m *Metrics) IncOutboundAttempt(target, result string) {
	if m == nil {
		return
	}
	m.OutboundAttempts.WithLabelValues(target, result).Inc()
}

func (m *Metrics) IncCircuitRejection(target string) {
	if m == nil {
		return
	}
	m.CircuitRejections.WithLabelValues(target).Inc()
}

func (m *Metrics) IncCircuitOpened(target string) {
	if m == nil {
		return
	}
	m.CircuitOpened.WithLabelValues(target).Inc()
}

func (m *Metrics) IncVerifyOutcome(target, outcome string) {
	if m == nil {
		return
	}
	m.VerifyOutcomes.WithLabelValues(target, outcome).Inc()
}

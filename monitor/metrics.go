package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics holds the Prometheus instruments of the portal.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StageTransitionsTotal    *prometheus.CounterVec
	StageConflictsTotal      prometheus.Counter
	AuditAppendFailuresTotal prometheus.Counter
	WorkflowBindingsTotal    *prometheus.CounterVec
	WorkflowActivationsTotal prometheus.Counter
	ScoreUpsertsTotal        prometheus.Counter
	NotificationsTotal       *prometheus.CounterVec
}

// NewMetrics creates and registers every instrument on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "route"}),
		StageTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_stage_transitions_total",
			Help: "Stage transition attempts by action and result.",
		}, []string{"action", "result"}),
		StageConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_stage_conflicts_total",
			Help: "Transitions rejected by the state version check.",
		}),
		AuditAppendFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_audit_append_failures_total",
			Help: "Stage events that failed to append after a committed state write.",
		}),
		WorkflowBindingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_workflow_bindings_total",
			Help: "Idea to workflow bindings by result.",
		}, []string{"result"}),
		WorkflowActivationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_workflow_activations_total",
			Help: "Workflow versions created and activated.",
		}),
		ScoreUpsertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_score_upserts_total",
			Help: "Evaluator score submissions.",
		}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_decision_notifications_total",
			Help: "Decision e-mails by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StageTransitionsTotal,
		m.StageConflictsTotal,
		m.AuditAppendFailuresTotal,
		m.WorkflowBindingsTotal,
		m.WorkflowActivationsTotal,
		m.ScoreUpsertsTotal,
		m.NotificationsTotal,
	)
	return m
}

// The helpers below accept a nil receiver so callers can run without metrics.

func (m *Metrics) ObserveTransition(action, result string) {
	if m == nil {
		return
	}
	m.StageTransitionsTotal.WithLabelValues(action, result).Inc()
	if result == "conflict" {
		m.StageConflictsTotal.Inc()
	}
}

func (m *Metrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.AuditAppendFailuresTotal.Inc()
}

func (m *Metrics) ObserveBinding(result string) {
	if m == nil {
		return
	}
	m.WorkflowBindingsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveActivation() {
	if m == nil {
		return
	}
	m.WorkflowActivationsTotal.Inc()
}

func (m *Metrics) ObserveScoreUpsert() {
	if m == nil {
		return
	}
	m.ScoreUpsertsTotal.Inc()
}

func (m *Metrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(result).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the lifecycle core
type Metrics struct {
	TransitionsTotal     *prometheus.CounterVec
	AuditWriteFailures   prometheus.Counter
	NotificationFailures prometheus.Counter
	QueriesResolvedTotal prometheus.Counter
}

// New registers the lifecycle collectors on a registry. Pass
// prometheus.DefaultRegisterer in production, a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_status_transitions_total",
			Help: "Status transitions applied, by source, target and actor role.",
		}, []string{"from", "to", "role"}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "loan_audit_write_failures_total",
			Help: "Audit entries that failed to reach the store and were logged locally.",
		}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "loan_notification_failures_total",
			Help: "Notifications that failed to deliver and were logged locally.",
		}),
		QueriesResolvedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "loan_queries_resolved_total",
			Help: "Query threads resolved by their author.",
		}),
	}
}

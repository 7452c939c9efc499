package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the compliance engine.
type Metrics struct {
	NotificationsCreated    *prometheus.CounterVec
	NotificationsUpdated    *prometheus.CounterVec
	NotificationsSuppressed *prometheus.CounterVec
	RuleErrors              *prometheus.CounterVec
	FleetRuns               prometheus.Counter
	TenantRunsFailed        prometheus.Counter
	TenantRunDuration       prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		NotificationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carescot_notifications_created_total",
			Help: "Notifications newly opened by the compliance engine, by rule",
		}, []string{"rule"}),
		NotificationsUpdated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carescot_notifications_updated_total",
			Help: "Open notifications escalated in place, by rule",
		}, []string{"rule"}),
		NotificationsSuppressed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carescot_notifications_suppressed_total",
			Help: "Candidates suppressed because an identical open notification exists, by rule",
		}, []string{"rule"}),
		RuleErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carescot_rule_errors_total",
			Help: "Rule evaluation failures recorded in run summaries, by rule",
		}, []string{"rule"}),
		FleetRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carescot_fleet_runs_total",
			Help: "Completed fleet sweeps",
		}),
		TenantRunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carescot_tenant_runs_failed_total",
			Help: "Organisation runs that failed entirely",
		}),
		TenantRunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "carescot_tenant_run_duration_seconds",
			Help:    "Duration of one organisation's compliance run",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Package metrics exposes Prometheus collectors for the grievance lifecycle
// engine. All methods are nil-safe so callers can skip wiring metrics in
// tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	grievancesCreated prometheus.Counter
	transitions       *prometheus.CounterVec
	votes             *prometheus.CounterVec
	escalations       *prometheus.CounterVec
	opDuration        *prometheus.HistogramVec
}

// New registers the grievance collectors with reg and returns the handle.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		grievancesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gramseva_grievances_created_total",
			Help: "Total number of grievances submitted.",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gramseva_status_transitions_total",
			Help: "Lifecycle transitions by source and target status.",
		}, []string{"from", "to"}),
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gramseva_community_votes_total",
			Help: "Community verification votes by type.",
		}, []string{"type"}),
		escalations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gramseva_escalations_total",
			Help: "Authority escalations by trigger.",
		}, []string{"trigger"}),
		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gramseva_operation_duration_seconds",
			Help:    "Duration of lifecycle engine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) GrievanceCreated() {
	if m == nil {
		return
	}
	m.grievancesCreated.Inc()
}

func (m *Metrics) StatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) VoteRecorded(voteType string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(voteType).Inc()
}

func (m *Metrics) Escalated(trigger string) {
	if m == nil {
		return
	}
	m.escalations.WithLabelValues(trigger).Inc()
}

func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(operation).Observe(d.Seconds())
}

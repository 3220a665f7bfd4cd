package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ReportsSubmitted   prometheus.Counter
	ValidationFailures prometheus.Counter
	HoneypotTrips      prometheus.Counter
	PersistenceErrors  prometheus.Counter
	SubmitDuration     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ReportsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireline_reports_submitted_total",
			Help: "Total number of reports accepted and persisted",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireline_validation_failures_total",
			Help: "Total number of submissions rejected by schema validation",
		}),
		HoneypotTrips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireline_honeypot_trips_total",
			Help: "Total number of submissions discarded by the honeypot trap",
		}),
		PersistenceErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireline_persistence_errors_total",
			Help: "Total number of submissions that failed during the write sequence",
		}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hireline_submit_duration_seconds",
			Help:    "End-to-end latency of the submission write sequence",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveSubmit records one completed submission write sequence.
func (m *Metrics) ObserveSubmit(d time.Duration) {
	if m == nil {
		return
	}
	m.SubmitDuration.Observe(d.Seconds())
}

// IncReportsSubmitted increments the accepted-report counter.
func (m *Metrics) IncReportsSubmitted() {
	if m == nil {
		return
	}
	m.ReportsSubmitted.Inc()
}

// IncValidationFailures increments the rejected-submission counter.
func (m *Metrics) IncValidationFailures() {
	if m == nil {
		return
	}
	m.ValidationFailures.Inc()
}

// IncHoneypotTrips increments the honeypot counter.
func (m *Metrics) IncHoneypotTrips() {
	if m == nil {
		return
	}
	m.HoneypotTrips.Inc()
}

// IncPersistenceErrors increments the failed-write counter.
func (m *Metrics) IncPersistenceErrors() {
	if m == nil {
		return
	}
	m.PersistenceErrors.Inc()
}

package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "memento/pkg/platform/audit"
)

// Metrics is optional; a nil *Metrics records nothing.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_audit_events_emitted_total",
			Help: "Audit events persisted, by category",
		}, []string{"category"}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memento_audit_persist_failures_total",
			Help: "Audit events that failed to persist",
		}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "memento_audit_persist_duration_seconds",
			Help:    "Duration of synchronous audit writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

func (m *Metrics) IncEventsEmitted(category audit.EventCategory) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(d.Seconds())
}

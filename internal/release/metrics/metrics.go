package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers deliverable releases and the will-execution fan-out.
type Metrics struct {
	Released        *prometheus.CounterVec
	ReleaseFailures *prometheus.CounterVec
	Guides          *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Released: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_deliverables_released_total",
			Help: "Deliverables released, by release policy",
		}, []string{"policy"}),
		ReleaseFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_deliverable_release_failures_total",
			Help: "Deliverables a sweep failed to release, by release policy",
		}, []string{"policy"}),
		Guides: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_execution_guides_total",
			Help: "Execution guide notices by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncReleased(policy string) {
	if m == nil {
		return
	}
	m.Released.WithLabelValues(policy).Inc()
}

func (m *Metrics) IncReleaseFailure(policy string) {
	if m == nil {
		return
	}
	m.ReleaseFailures.WithLabelValues(policy).Inc()
}

func (m *Metrics) AddGuides(outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Guides.WithLabelValues(outcome).Add(float64(n))
}

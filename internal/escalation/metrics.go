package escalation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ReportsFinalized prometheus.Counter
	HookFailures     prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		ReportsFinalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memento_death_reports_finalized_total",
			Help: "Reports moved to FINAL_CONFIRMED by the escalation sweep",
		}),
		HookFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memento_finality_hook_failures_total",
			Help: "Finality hooks that returned an error",
		}),
	}
}

func (m *Metrics) incFinalized() {
	if m == nil {
		return
	}
	m.ReportsFinalized.Inc()
}

func (m *Metrics) incHookFailure() {
	if m == nil {
		return
	}
	m.HookFailures.Inc()
}

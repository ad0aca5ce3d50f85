package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the verification ledger: report intake, token decisions and
// consensus transitions.
type Metrics struct {
	ReportsCreated       prometheus.Counter
	ReportsRefused       *prometheus.CounterVec
	Decisions            *prometheus.CounterVec
	ReportsConfirmed     prometheus.Counter
	OwnerCancellations   prometheus.Counter
	CreateReportDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		ReportsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memento_death_reports_created_total",
			Help: "Total number of death reports accepted",
		}),
		ReportsRefused: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_death_reports_refused_total",
			Help: "Death reports refused at intake, by reason",
		}, []string{"reason"}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_attestation_decisions_total",
			Help: "Attestation token decisions, by outcome",
		}, []string{"outcome"}),
		ReportsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memento_death_reports_confirmed_total",
			Help: "Reports that reached the confirmation threshold",
		}),
		OwnerCancellations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memento_owner_cancellations_total",
			Help: "Successful owner cancellations",
		}),
		CreateReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "memento_create_report_duration_seconds",
			Help:    "Duration of CreateReport, including contact notifications",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) IncRefused(reason string) {
	m.ReportsRefused.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncDecision(outcome string) {
	m.Decisions.WithLabelValues(outcome).Inc()
}

// ObserveCreateReport records the duration of a CreateReport call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateReport(start time.Time) {
	m.CreateReportDuration.Observe(time.Since(start).Seconds())
}

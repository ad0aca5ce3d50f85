package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Runs     *prometheus.CounterVec
	Skipped  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_sweep_runs_total",
			Help: "Sweep iterations by job and outcome",
		}, []string{"job", "outcome"}),
		Skipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_sweep_skipped_total",
			Help: "Sweep iterations skipped because another replica held the lease",
		}, []string{"job"}),
		Duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memento_sweep_duration_seconds",
			Help:    "Duration of sweep iterations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"job"}),
	}
}

func (m *Metrics) observeRun(job string, err error, start time.Time) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Runs.WithLabelValues(job, outcome).Inc()
	m.Duration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}

func (m *Metrics) incSkipped(job string) {
	if m == nil {
		return
	}
	m.Skipped.WithLabelValues(job).Inc()
}

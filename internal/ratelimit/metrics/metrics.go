package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected    *prometheus.CounterVec
	CheckErrors *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_ratelimit_rejected_total",
			Help: "Requests rejected by the rate limiter, by rule",
		}, []string{"rule"}),
		CheckErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_ratelimit_check_errors_total",
			Help: "Rate limit checks that failed and let the request through, by rule",
		}, []string{"rule"}),
	}
}

func (m *Metrics) IncRejected(rule string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(rule).Inc()
}

func (m *Metrics) IncCheckError(rule string) {
	if m == nil {
		return
	}
	m.CheckErrors.WithLabelValues(rule).Inc()
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide HTTP metrics. Module specific metrics live
// next to their module (internal/<module>/metrics).
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memento_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memento_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

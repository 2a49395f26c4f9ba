// Package metrics holds the Prometheus collectors for calls made to the boost API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gamingboost",
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight API requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gamingboost",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests by operation and status.",
		}, []string{"op", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gamingboost",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"op"}),
	}
	m.Registry.MustRegister(m.inFlight, m.requests, m.duration)
	return m
}

// Begin marks one request as in flight and returns the function that records its outcome.
// status 0 means the request never got a response.
func (m *Metrics) Begin(op string) func(status int) {
	if m == nil {
		return func(int) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(status int) {
		m.inFlight.Dec()
		label := "error"
		if status > 0 {
			label = strconv.Itoa(status)
		}
		m.requests.WithLabelValues(op, label).Inc()
		m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request, error and authentication counters.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	auth     *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanfund",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"path", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fanfund",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanfund",
			Name:      "http_errors_total",
			Help:      "Total number of failed HTTP requests by error code",
		}, []string{"path", "method", "code"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanfund",
			Name:      "auth_attempts_total",
			Help:      "Login attempts by actor space and outcome",
		}, []string{"space", "outcome"}),
	}
	reg.MustRegister(m.requests, m.duration, m.errors, m.auth)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordAuth counts a login attempt for the given actor space.
func (m *Metrics) RecordAuth(space, outcome string) {
	if m == nil {
		return
	}
	m.auth.WithLabelValues(space, outcome).Inc()
}

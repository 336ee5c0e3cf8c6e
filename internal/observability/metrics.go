package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps the Prometheus collectors exported by the service.
type Metrics struct {
	registry          *prometheus.Registry
	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errorTotal        *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	policyDenials     *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	errorTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "HTTP requests that ended in an application error",
	}, []string{"method", "path", "code"})

	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grievance_status_transitions_total",
		Help: "Grievance status transitions by source and target status",
	}, []string{"from", "to"})

	policyDenials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grievance_policy_denials_total",
		Help: "Authorization denials by action and reason",
	}, []string{"action", "reason"})

	registry.MustRegister(requestTotal, requestDuration, errorTotal, statusTransitions, policyDenials)

	return &Metrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		errorTotal:        errorTotal,
		statusTransitions: statusTransitions,
		policyDenials:     policyDenials,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest observes a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(method, path, code).Inc()
}

// RecordTransition counts an applied status change.
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

// RecordDenial counts a policy denial.
func (m *Metrics) RecordDenial(action, reason string) {
	if m == nil {
		return
	}
	m.policyDenials.WithLabelValues(action, reason).Inc()
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Translation metrics
	translateTotal    *prometheus.CounterVec
	translateDuration prometheus.Histogram
	decodeErrorsTotal prometheus.Counter

	// Audit metrics
	auditEntriesTotal prometheus.Counter

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all Prometheus metrics on the given registerer.
// Tests use a fresh registry per server to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowbridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rowbridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rowbridge_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		translateTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowbridge_translate_total",
				Help: "Total number of translation attempts",
			},
			[]string{"status"},
		),

		translateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rowbridge_translate_duration_seconds",
				Help:    "Translation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		decodeErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rowbridge_decode_errors_total",
				Help: "Total number of records rejected by the wire decoder",
			},
		),

		auditEntriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rowbridge_audit_entries_total",
				Help: "Total number of envelopes retained in the audit store",
			},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowbridge_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTranslate records one translation attempt.
func (m *Metrics) RecordTranslate(success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.translateTotal.WithLabelValues(status).Inc()
	m.translateDuration.Observe(duration.Seconds())
}

// RecordDecodeError records one record rejected by the wire decoder.
func (m *Metrics) RecordDecodeError() {
	m.decodeErrorsTotal.Inc()
}

// RecordAuditEntry records one envelope retained in the audit store.
func (m *Metrics) RecordAuditEntry() {
	m.auditEntriesTotal.Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Wrap the response writer to capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

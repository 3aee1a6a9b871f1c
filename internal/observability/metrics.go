package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	requestsTotal      *prometheus.CounterVec
	latencySeconds     *prometheus.HistogramVec
	errorsTotal        *prometheus.CounterVec
	auditRecordsTotal  *prometheus.CounterVec
	scopeDenialsTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		auditRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_records_total",
			Help: "Total number of audit trail records written, by action.",
		}, []string{"action"})

		scopeDenialsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scope_denials_total",
			Help: "Total number of relationship-scope rejections, by caller role.",
		}, []string{"role"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, auditRecordsTotal, scopeDenialsTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// AuditRecords exposes the counter for written audit records.
func AuditRecords() *prometheus.CounterVec {
	RegisterMetrics()
	return auditRecordsTotal
}

// ScopeDenials exposes the counter for relationship-scope rejections.
func ScopeDenials() *prometheus.CounterVec {
	RegisterMetrics()
	return scopeDenialsTotal
}

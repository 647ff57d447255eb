package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	gateDecisionsTotal    *prometheus.CounterVec
	attendanceWritesTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edudesk_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		gateDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_gate_decisions_total",
			Help: "Access gate decisions grouped by outcome.",
		}, []string{"outcome"})

		attendanceWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_attendance_writes_total",
			Help: "Attendance records written grouped by status.",
		}, []string{"status"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
			gateDecisionsTotal, attendanceWritesTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// GateDecisions exposes the counter for access gate outcomes.
func GateDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return gateDecisionsTotal
}

// AttendanceWrites exposes the counter for attendance writes.
func AttendanceWrites() *prometheus.CounterVec {
	RegisterMetrics()
	return attendanceWritesTotal
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zenboard_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zenboard_fetches_total",
			Help: "Total number of fan-out fetch task executions",
		},
		[]string{"source", "status"},
	)

	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zenboard_store_operations_total",
			Help: "Total number of user store operations",
		},
		[]string{"operation", "status"},
	)

	// Histogram metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zenboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zenboard_fetch_duration_seconds",
			Help:    "Fan-out fetch task latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)

// RecordRequest records a served HTTP request
func RecordRequest(route, method, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration)
}

// RecordFetch records one fetch task execution
func RecordFetch(source string, success bool, duration float64) {
	status := "success"
	if !success {
		status = "error"
	}
	FetchesTotal.WithLabelValues(source, status).Inc()
	FetchDuration.WithLabelValues(source).Observe(duration)
}

// RecordStoreOperation records a user store operation
func RecordStoreOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}

package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests by method, route, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request latency by method and route.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedback_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// FeedbackOperationsTotal counts storage-layer operations by outcome.
	FeedbackOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_operations_total",
		Help: "Total number of feedback storage operations",
	}, []string{"operation", "outcome"})
)

var registerMetricsOnce sync.Once

// MustRegisterMetrics registers all application metrics with the registerer.
func MustRegisterMetrics(registerer prometheus.Registerer) {
	registerer.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		FeedbackOperationsTotal,
	)
}

// RegisterDefaultMetrics registers the application metrics with the default
// registry. Safe to call from every router construction; registration only
// happens once per process.
func RegisterDefaultMetrics() {
	registerMetricsOnce.Do(func() {
		MustRegisterMetrics(prometheus.DefaultRegisterer)
	})
}

// MetricsHandler returns the Prometheus text exposition handler for GET /metrics.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one handled request on the counters and histogram.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if path == "" {
		path = "unknown"
	}
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveFeedbackOperation records the outcome of a storage operation.
func ObserveFeedbackOperation(operation string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	FeedbackOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Document store metrics
var (
	// DocumentsTotal tracks the number of documents in the store
	DocumentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "documents_total",
			Help: "Number of documents in the document store",
		},
	)

	// DocumentOperationsTotal counts store operations by kind and outcome
	DocumentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_operations_total",
			Help: "Total document store operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// DocumentExtractDuration measures text extraction time per format
	DocumentExtractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_extract_duration_seconds",
			Help:    "Time spent extracting text from a stored document",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"format"},
	)
)

// Remote source metrics (web pages and feeds)
var (
	// ContentFetchAttemptsTotal counts fetches by source kind and outcome
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total remote fetch attempts by kind (page, feed) and result",
		},
		[]string{"kind", "result"},
	)

	// ContentFetchDuration measures remote fetch latency
	ContentFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Remote fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// ContentFetchSize measures the size of fetched text in bytes
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_size_bytes",
			Help:    "Size of text extracted from fetched pages",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)

	// FeedItemsTotal counts feed items handed to the summarizer
	FeedItemsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_items_total",
			Help: "Total feed items read for summarization",
		},
	)
)

// Export job metrics
var (
	// ExportRunsTotal counts export job runs by status
	ExportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_runs_total",
			Help: "Total summary export runs by status",
		},
		[]string{"status"},
	)

	// ExportedSummariesTotal counts summary files written by outcome
	ExportedSummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exported_summaries_total",
			Help: "Total summaries processed by the export job by result (written, skipped, failed)",
		},
		[]string{"result"},
	)

	// ExportRunDuration measures a whole export run
	ExportRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "export_run_duration_seconds",
			Help:    "Duration of a summary export run",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Resilience and notification metrics
var (
	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state by name (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	BreakerRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejections_total",
			Help: "Calls rejected by an open or half-open circuit breaker",
		},
		[]string{"name"},
	)

	// ExportNotificationsTotal counts webhook deliveries by channel and result
	ExportNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_notifications_total",
			Help: "Export report webhook deliveries by channel (discord, slack) and result",
		},
		[]string{"channel", "result"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the time since start of a database
// operation ("query", "exec"). Meant for defer.
func RecordOperationDuration(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

package metrics

import (
	"time"
)

// Fetch kinds used as the "kind" label.
const (
	KindPage = "page"
	KindFeed = "feed"
)

// RecordDocumentOperation records the outcome of a document store operation
// ("list", "get", "upload", "create", "delete").
func RecordDocumentOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	DocumentOperationsTotal.WithLabelValues(operation, status).Inc()
}

// UpdateDocumentsTotal sets the current number of stored documents.
// Called after every listing, so the gauge lags by at most one request.
func UpdateDocumentsTotal(count int) {
	DocumentsTotal.Set(float64(count))
}

// RecordDocumentExtract records how long text extraction took for a format.
func RecordDocumentExtract(format string, duration time.Duration) {
	DocumentExtractDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordContentFetchSuccess records a successful fetch and the size of the
// text it produced.
//
// Example:
//
//	start := time.Now()
//	text, err := fetcher.FetchContent(ctx, url)
//	if err == nil {
//	    RecordContentFetchSuccess(KindPage, time.Since(start), len(text))
//	}
func RecordContentFetchSuccess(kind string, duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues(kind, "success").Inc()
	ContentFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if kind == KindPage {
		ContentFetchSize.Observe(float64(size))
	}
}

// RecordContentFetchFailed records a failed fetch.
func RecordContentFetchFailed(kind string, duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues(kind, "failure").Inc()
	ContentFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFeedItems adds n feed items to the running total.
func RecordFeedItems(n int) {
	FeedItemsTotal.Add(float64(n))
}

// RecordExportRun records one export job run.
func RecordExportRun(duration time.Duration, written, skipped, failed int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	ExportRunsTotal.WithLabelValues(status).Inc()
	ExportRunDuration.Observe(duration.Seconds())
	ExportedSummariesTotal.WithLabelValues("written").Add(float64(written))
	ExportedSummariesTotal.WithLabelValues("skipped").Add(float64(skipped))
	ExportedSummariesTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordBreakerState sets the state gauge of the named circuit breaker.
// state follows gobreaker.State: 0 closed, 1 half-open, 2 open.
func RecordBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordBreakerRejection counts a call the named breaker refused.
func RecordBreakerRejection(name string) {
	BreakerRejectionsTotal.WithLabelValues(name).Inc()
}

// RecordNotification records one webhook delivery of an export report.
func RecordNotification(channel string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ExportNotificationsTotal.WithLabelValues(channel, result).Inc()
}

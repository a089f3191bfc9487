// Package metrics provides the Prometheus metrics registry and recording helpers.
//
// This package covers:
//   - HTTP request metrics (duration, count, size)
//   - Document store metrics (document count, operations, extraction time)
//   - Remote fetch metrics for web pages and feeds
//   - Export job metrics
//
// Summarizer metrics live next to the summarizer in internal/infra/summarizer.
// All metrics register with the default registry and are exposed on /metrics.
//
// Example usage:
//
//	import "perangkum/internal/observability/metrics"
//
//	func upload(ctx context.Context) error {
//	    err := store.Save(ctx, doc)
//	    metrics.RecordDocumentOperation("upload", err)
//	    return err
//	}
package metrics

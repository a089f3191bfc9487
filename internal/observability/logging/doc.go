// Package logging provides structured logging utilities with context propagation.
//
// Loggers are log/slog loggers configured from LOG_LEVEL and LOG_FORMAT.
// Request-scoped loggers carry request_id and, when tracing is active, trace_id.
//
// Example usage:
//
//	import "perangkum/internal/observability/logging"
//
//	func main() {
//	    slog.SetDefault(logging.NewLogger())
//	}
//
//	func handle(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("summarizing document", slog.String("name", name))
//	}
package logging

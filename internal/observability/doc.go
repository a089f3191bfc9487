// Package observability groups the logging, metrics and tracing infrastructure.
//
// Subpackages:
//   - logging: slog JSON/text loggers with request ID propagation
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer provider, spans and HTTP middleware
//
// Example usage:
//
//	import (
//	    "perangkum/internal/observability/logging"
//	    "perangkum/internal/observability/tracing"
//	)
//
//	func main() {
//	    slog.SetDefault(logging.NewLogger())
//	    shutdown := tracing.Init("perangkum-api")
//	    defer func() { _ = shutdown(context.Background()) }()
//	}
package observability

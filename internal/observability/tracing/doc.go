// Package tracing wires OpenTelemetry spans through the HTTP server, the
// summarization pipeline and outbound page and feed fetches.
//
// Example usage:
//
//	func main() {
//	    shutdown := tracing.Init("perangkum-api")
//	    defer func() { _ = shutdown(context.Background()) }()
//	    handler := tracing.Middleware(mux)
//	}
//
//	func summarize(ctx context.Context) error {
//	    ctx, span := tracing.StartSpan(ctx, "summary.text")
//	    defer span.End()
//	    // ...
//	}
package tracing

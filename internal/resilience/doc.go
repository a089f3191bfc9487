// Package resilience groups the fault tolerance helpers used around network
// and database calls.
//
//   - circuitbreaker: gobreaker wrappers for page fetches, feed fetches and the
//     PostgreSQL document store
//   - retry: exponential backoff with jitter for transient fetch and webhook
//     failures
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.PageFetchConfig())
//	text, err := circuitbreaker.Run(cb, func() (string, error) {
//	    return fetchPage(ctx, url)
//	})
//
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    return fetchFeed(ctx, url)
//	})
package resilience

package summary

import (
	"context"
	"errors"
	"time"

	"perangkum/internal/domain/entity"
)

// Summarizer turns text into a Summary. The TF-IDF adapter in
// internal/infra/summarizer is the production implementation.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*entity.Summary, error)
}

// ContentFetcher fetches a web page and returns its readable text.
//
// Implementations must reject URLs that resolve to private networks, follow
// only validated redirects and cap the response size.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// FeedItem is one entry of an RSS or Atom feed.
type FeedItem struct {
	Title       string
	URL         string
	Content     string
	PublishedAt time.Time
}

// FeedReader fetches and parses an RSS or Atom feed.
type FeedReader interface {
	Fetch(ctx context.Context, feedURL string) ([]FeedItem, error)
}

// TextExtractor decodes stored documents into plain text.
type TextExtractor interface {
	ExtractDocument(ctx context.Context, doc *entity.Document) (string, error)
}

// Sentinel errors for remote fetching. Fetch adapters wrap them so callers
// can tell a bad request from an upstream failure.
var (
	// ErrInvalidURL indicates a malformed URL or a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates a URL that resolves to a private network address.
	ErrPrivateIP = errors.New("private IP access denied")

	// ErrTooManyRedirects indicates the redirect chain exceeded the limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the remote server did not answer in time.
	ErrTimeout = errors.New("request timeout")

	// ErrReadabilityFailed indicates no readable text could be extracted.
	ErrReadabilityFailed = errors.New("content extraction failed")

	// ErrFeedFetchFailed indicates the feed could not be downloaded.
	ErrFeedFetchFailed = errors.New("failed to fetch feed")

	// ErrInvalidFeedFormat indicates the payload is not RSS or Atom.
	ErrInvalidFeedFormat = errors.New("invalid feed format")

	// ErrFetchFailed indicates any other remote failure (HTTP status, network).
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUpstreamUnavailable indicates the circuit breaker for the remote
	// dependency is open.
	ErrUpstreamUnavailable = errors.New("upstream temporarily unavailable")
)

// IsBadRequest reports whether err was caused by the caller's URL rather
// than by the remote side.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrPrivateIP)
}

// IsFetchFailure reports whether err came from the remote side.
func IsFetchFailure(err error) bool {
	for _, target := range []error{
		ErrTooManyRedirects, ErrBodyTooLarge, ErrTimeout, ErrReadabilityFailed,
		ErrFeedFetchFailed, ErrInvalidFeedFormat, ErrFetchFailed, ErrUpstreamUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

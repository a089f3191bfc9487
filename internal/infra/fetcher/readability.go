// Package fetcher downloads web pages and returns their readable text for
// summarization.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"perangkum/internal/infra/extractor"
	"perangkum/internal/observability/metrics"
	"perangkum/internal/observability/tracing"
	"perangkum/internal/resilience/circuitbreaker"
	"perangkum/internal/resilience/retry"
	"perangkum/internal/usecase/summary"
)

// ReadabilityFetcher implements summary.ContentFetcher with the Mozilla
// Readability algorithm (go-shiori/go-readability).
//
// Every request and redirect target is validated against private networks,
// bodies are size-limited, transient failures are retried with backoff and
// repeated failures open a circuit breaker.
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         ContentFetchConfig
}

// Option customizes a ReadabilityFetcher.
type Option func(*ReadabilityFetcher)

// WithRetryConfig replaces the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(f *ReadabilityFetcher) { f.retryConfig = cfg }
}

// WithCircuitBreaker replaces the circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(f *ReadabilityFetcher) { f.circuitBreaker = cb }
}

// NewReadabilityFetcher creates a fetcher with its own HTTP client.
//
// Example:
//
//	f := NewReadabilityFetcher(DefaultConfig())
//	text, err := f.FetchContent(ctx, "https://example.com/berita")
func NewReadabilityFetcher(config ContentFetchConfig, opts ...Option) *ReadabilityFetcher {
	fetcher := &ReadabilityFetcher{
		client:         NewHTTPClient(config),
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		retryConfig:    retry.PageFetchConfig(),
		config:         config,
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// NewHTTPClient builds a client that re-validates every redirect target
// against config.
func NewHTTPClient(config ContentFetchConfig) *http.Client {
	return &http.Client{
		Timeout: config.Timeout + 5*time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", summary.ErrTooManyRedirects, len(via))
			}
			if err := ValidateURL(req.URL.String(), config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
}

// FetchContent downloads urlStr and returns the page's article text.
//
// Errors wrap the summary package sentinels: ErrInvalidURL and ErrPrivateIP
// for rejected URLs; ErrTooManyRedirects, ErrBodyTooLarge, ErrTimeout,
// ErrReadabilityFailed, ErrFetchFailed and ErrUpstreamUnavailable for
// remote failures.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "fetch.page", attribute.String("url", urlStr))
	defer span.End()

	if err := ValidateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", tracing.RecordError(span, err)
	}

	start := time.Now()
	var text string
	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		var err error
		text, err = circuitbreaker.Run(f.circuitBreaker, func() (string, error) {
			return f.doFetch(ctx, urlStr)
		})
		return err
	})
	if err != nil {
		metrics.RecordContentFetchFailed(metrics.KindPage, time.Since(start))
		if circuitbreaker.Rejected(err) {
			err = fmt.Errorf("%w: %v", summary.ErrUpstreamUnavailable, err)
		}
		return "", tracing.RecordError(span, err)
	}

	metrics.RecordContentFetchSuccess(metrics.KindPage, time.Since(start), len(text))
	span.SetAttributes(attribute.Int("text_length", len(text)))
	return text, nil
}

// doFetch performs one HTTP request and extracts the page text.
func (f *ReadabilityFetcher) doFetch(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", summary.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: request exceeded %v", summary.ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && isRedirectError(urlErr.Err) {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("%w: %w", summary.ErrFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %w", summary.ErrFetchFailed,
			&retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status})
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %w", summary.ErrFetchFailed, err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size exceeds limit %d bytes",
			summary.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Relative links resolve against the final URL after redirects.
	pageURL := resp.Request.URL
	text, err := extractor.HTML(bytes.NewReader(htmlBytes), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", summary.ErrReadabilityFailed, err)
	}

	slog.Debug("page fetched",
		slog.String("url", urlStr),
		slog.Int("html_bytes", len(htmlBytes)),
		slog.Int("text_length", len(text)))
	return text, nil
}

func isRedirectError(err error) bool {
	return errors.Is(err, summary.ErrTooManyRedirects) ||
		errors.Is(err, summary.ErrInvalidURL) ||
		errors.Is(err, summary.ErrPrivateIP)
}

// Package feed reads RSS and Atom feeds whose items are summarized one by one.
// It uses the gofeed library with retry and circuit breaker protection.
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/attribute"

	"perangkum/internal/infra/extractor"
	"perangkum/internal/infra/fetcher"
	"perangkum/internal/observability/metrics"
	"perangkum/internal/observability/tracing"
	"perangkum/internal/resilience/circuitbreaker"
	"perangkum/internal/resilience/retry"
	"perangkum/internal/usecase/summary"
)

// RSSReader implements summary.FeedReader.
type RSSReader struct {
	client         *http.Client
	config         fetcher.ContentFetchConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// NewRSSReader creates a reader sharing the page fetcher's limits and SSRF rules.
func NewRSSReader(cfg fetcher.ContentFetchConfig) *RSSReader {
	return &RSSReader{
		client:         fetcher.NewHTTPClient(cfg),
		config:         cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		now:            time.Now,
	}
}

// WithRetryConfig replaces the retry policy and returns r.
func (r *RSSReader) WithRetryConfig(cfg retry.Config) *RSSReader {
	r.retryConfig = cfg
	return r
}

// Fetch downloads and parses feedURL. Item bodies are converted from HTML to
// plain text; items without a body fall back to their title.
func (r *RSSReader) Fetch(ctx context.Context, feedURL string) ([]summary.FeedItem, error) {
	ctx, span := tracing.StartSpan(ctx, "fetch.feed", attribute.String("url", feedURL))
	defer span.End()

	if err := fetcher.ValidateURL(feedURL, r.config.DenyPrivateIPs); err != nil {
		return nil, tracing.RecordError(span, err)
	}

	start := time.Now()
	var items []summary.FeedItem
	err := retry.WithBackoff(ctx, r.retryConfig, func() error {
		var err error
		items, err = circuitbreaker.Run(r.circuitBreaker, func() ([]summary.FeedItem, error) {
			return r.doFetch(ctx, feedURL)
		})
		if circuitbreaker.Rejected(err) {
			slog.Warn("feed fetch circuit breaker open, request rejected",
				slog.String("url", feedURL),
				slog.String("state", r.circuitBreaker.State().String()))
		}
		return err
	})
	if err != nil {
		metrics.RecordContentFetchFailed(metrics.KindFeed, time.Since(start))
		if circuitbreaker.Rejected(err) {
			err = fmt.Errorf("%w: %v", summary.ErrUpstreamUnavailable, err)
		}
		return nil, tracing.RecordError(span, err)
	}

	metrics.RecordContentFetchSuccess(metrics.KindFeed, time.Since(start), 0)
	metrics.RecordFeedItems(len(items))
	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}

// doFetch performs one download and parse without retry or circuit breaker.
func (r *RSSReader) doFetch(ctx context.Context, feedURL string) ([]summary.FeedItem, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", summary.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", r.config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: feed request exceeded %v", summary.ErrTimeout, r.config.Timeout)
		}
		return nil, fmt.Errorf("%w: %w", summary.ErrFeedFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", summary.ErrFeedFetchFailed,
			&retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", summary.ErrFeedFetchFailed, err)
	}
	if int64(len(body)) > r.config.MaxBodySize {
		return nil, fmt.Errorf("%w: feed exceeds %d bytes", summary.ErrBodyTooLarge, r.config.MaxBodySize)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", summary.ErrInvalidFeedFormat, err)
	}
	return r.toItems(parsed), nil
}

func (r *RSSReader) toItems(parsed *gofeed.Feed) []summary.FeedItem {
	items := make([]summary.FeedItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		pubAt := r.now()
		if it.PublishedParsed != nil {
			pubAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pubAt = *it.UpdatedParsed
		}

		// Full content first, then the description.
		body := it.Content
		if strings.TrimSpace(body) == "" {
			body = it.Description
		}
		content := extractor.FragmentText(body)
		if content == "" {
			content = strings.TrimSpace(it.Title)
		}

		items = append(items, summary.FeedItem{
			Title:       strings.TrimSpace(it.Title),
			URL:         it.Link,
			Content:     content,
			PublishedAt: pubAt,
		})
	}
	return items
}

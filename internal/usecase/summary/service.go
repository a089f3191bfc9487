package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"perangkum/internal/domain/entity"
	"perangkum/internal/observability/logging"
	"perangkum/internal/repository"
	"perangkum/pkg/extractive"
)

// DefaultParallelism bounds concurrent summarizations in batch operations.
const DefaultParallelism = 4

// SourceText is the Source recorded for summaries of raw text.
const SourceText = "text"

// Config controls batch concurrency and the empty-vocabulary fallback.
type Config struct {
	// Parallelism is the maximum number of items summarized at once by
	// SummarizeBatch, SummarizeFeed and SummarizeAll.
	Parallelism int

	// FallbackOnEmpty returns the Fallback summarizer's output instead of
	// ErrEmptyVocabulary when a text has nothing to score.
	FallbackOnEmpty bool
}

// Service provides the summarization use cases over raw text, stored
// documents, web pages and feeds.
type Service struct {
	Documents      repository.DocumentRepository
	Extractor      TextExtractor
	Summarizer     Summarizer
	Fallback       Summarizer
	ContentFetcher ContentFetcher
	FeedReader     FeedReader
	config         Config
}

// NewService creates a summary Service. fallback, contentFetcher and
// feedReader may be nil; the operations that need them then fail.
//
// Example:
//
//	svc := summary.NewService(repo, registry, tfidf, summarizer.NewNoOp(), fetcher, reader,
//	    summary.Config{Parallelism: 4})
func NewService(
	documents repository.DocumentRepository,
	extractor TextExtractor,
	summarizer Summarizer,
	fallback Summarizer,
	contentFetcher ContentFetcher,
	feedReader FeedReader,
	cfg Config,
) *Service {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}
	return &Service{
		Documents:      documents,
		Extractor:      extractor,
		Summarizer:     summarizer,
		Fallback:       fallback,
		ContentFetcher: contentFetcher,
		FeedReader:     feedReader,
		config:         cfg,
	}
}

// SummarizeText summarizes raw text.
func (s *Service) SummarizeText(ctx context.Context, text string) (*entity.Summary, error) {
	return s.summarize(ctx, SourceText, text)
}

// SummarizeDocument extracts the text of the named stored document and
// summarizes it. A missing document yields an error wrapping entity.ErrNotFound.
func (s *Service) SummarizeDocument(ctx context.Context, name string) (*entity.Summary, error) {
	if err := entity.ValidateDocumentName(name); err != nil {
		return nil, err
	}

	doc, err := s.Documents.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %q", entity.ErrNotFound, name)
	}

	text, err := s.Extractor.ExtractDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	return s.summarize(ctx, name, text)
}

// SummarizeURL fetches a web page, extracts its readable text and summarizes it.
func (s *Service) SummarizeURL(ctx context.Context, url string) (*entity.Summary, error) {
	if s.ContentFetcher == nil {
		return nil, errors.New("summarize url: no content fetcher configured")
	}
	text, err := s.ContentFetcher.FetchContent(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	return s.summarize(ctx, url, text)
}

// SummarizeBatch summarizes each text independently. Results keep the
// order of texts and are labelled "text[i]".
func (s *Service) SummarizeBatch(ctx context.Context, texts []string) ([]entity.SummaryResult, error) {
	sources := make([]string, len(texts))
	for i := range texts {
		sources[i] = fmt.Sprintf("%s[%d]", SourceText, i)
	}
	return s.runBatch(ctx, sources, func(ctx context.Context, i int) (*entity.Summary, error) {
		return s.summarize(ctx, sources[i], texts[i])
	})
}

// SummarizeFeed fetches a feed and summarizes every item. A failure to
// fetch the feed is returned as an error; per-item failures are reported in
// the results.
func (s *Service) SummarizeFeed(ctx context.Context, feedURL string) ([]entity.SummaryResult, error) {
	if s.FeedReader == nil {
		return nil, errors.New("summarize feed: no feed reader configured")
	}
	items, err := s.FeedReader.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	sources := make([]string, len(items))
	for i, item := range items {
		sources[i] = item.URL
		if sources[i] == "" {
			sources[i] = item.Title
		}
	}
	return s.runBatch(ctx, sources, func(ctx context.Context, i int) (*entity.Summary, error) {
		return s.summarize(ctx, sources[i], items[i].Content)
	})
}

// SummarizeAll summarizes every stored document.
func (s *Service) SummarizeAll(ctx context.Context) ([]entity.SummaryResult, error) {
	docs, err := s.Documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return s.runBatch(ctx, names, func(ctx context.Context, i int) (*entity.Summary, error) {
		return s.SummarizeDocument(ctx, names[i])
	})
}

// runBatch calls fn for every source with at most config.Parallelism calls
// in flight. Item errors are collected in the results; only cancellation of
// ctx aborts the batch.
func (s *Service) runBatch(
	ctx context.Context,
	sources []string,
	fn func(ctx context.Context, i int) (*entity.Summary, error),
) ([]entity.SummaryResult, error) {
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
	start := time.Now()

	results := make([]entity.SummaryResult, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Parallelism)

	for i := range sources {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			sum, err := fn(egCtx, i)
			if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return err
			}
			results[i] = entity.SummaryResult{Source: sources[i], Summary: sum, Err: err}
			if err != nil {
				logger.Warn("summarization failed, skipping item",
					slog.String("source", sources[i]),
					slog.Any("error", err))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("batch summarization completed",
		slog.Int("items", len(sources)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))
	return results, nil
}

// summarize runs the summarizer and, when configured, falls back to the
// truncated text on an empty vocabulary.
func (s *Service) summarize(ctx context.Context, source, text string) (*entity.Summary, error) {
	sum, err := s.Summarizer.Summarize(ctx, text)
	if err != nil {
		if !s.config.FallbackOnEmpty || s.Fallback == nil || !errors.Is(err, extractive.ErrEmptyVocabulary) {
			return nil, err
		}
		logging.WithRequestID(ctx, logging.FromContext(ctx)).Info("nothing to score, using truncated text",
			slog.String("source", source))
		sum, err = s.Fallback.Summarize(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("fallback summary: %w", err)
		}
	}
	sum.Source = source
	return sum, nil
}

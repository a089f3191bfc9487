// Package summarizer adapts the extractive TF-IDF ranker to the summary use
// cases, adding context handling, logging, metrics and tracing.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"perangkum/internal/domain/entity"
	"perangkum/internal/observability/logging"
	"perangkum/internal/observability/tracing"
	"perangkum/pkg/extractive"
)

// TFIDF summarizes text by selecting its highest-scoring sentences.
type TFIDF struct {
	opts            extractive.Options
	metricsRecorder SummaryMetricsRecorder
	now             func() time.Time
}

// NewTFIDF creates a TF-IDF summarizer. The options are validated up front
// so a misconfigured service fails at startup rather than per request.
func NewTFIDF(opts extractive.Options) (*TFIDF, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &TFIDF{
		opts:            opts,
		metricsRecorder: NewPrometheusSummaryMetrics(),
		now:             time.Now,
	}, nil
}

// WithMetricsRecorder replaces the metrics recorder and returns t.
func (t *TFIDF) WithMetricsRecorder(r SummaryMetricsRecorder) *TFIDF {
	t.metricsRecorder = r
	return t
}

// Options returns the options every call is made with.
func (t *TFIDF) Options() extractive.Options {
	return t.opts
}

// Summarize ranks the sentences of text and returns the top ones.
// Errors wrap extractive.ErrInvalidArgument or extractive.ErrEmptyVocabulary.
func (t *TFIDF) Summarize(ctx context.Context, text string) (*entity.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "summarize.tfidf",
		attribute.Int("text_length", len(text)),
		attribute.Int("top_k", t.opts.TopK))
	defer span.End()

	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
	start := time.Now()

	res, err := extractive.Rank(text, t.opts)
	duration := time.Since(start)
	t.metricsRecorder.RecordDuration(duration)
	if err != nil {
		switch {
		case errors.Is(err, extractive.ErrEmptyVocabulary):
			t.metricsRecorder.RecordOutcome(OutcomeEmptyVocabulary)
		case errors.Is(err, extractive.ErrInvalidArgument):
			t.metricsRecorder.RecordOutcome(OutcomeInvalidArgument)
		}
		logger.Debug("summarization failed",
			slog.Int("text_length", len(text)),
			slog.Any("error", err))
		return nil, tracing.RecordError(span, fmt.Errorf("summarize: %w", err))
	}

	selected := res.Sentences()
	sentences := make([]entity.RankedSentence, len(selected))
	for i, s := range selected {
		sentences[i] = entity.RankedSentence{Index: s.Index, Text: s.Text, Score: s.Score}
	}
	out := res.Summary()

	t.metricsRecorder.RecordOutcome(OutcomeSuccess)
	t.metricsRecorder.RecordSentenceCount(len(res.Ranked))
	t.metricsRecorder.RecordLength(utf8.RuneCountInString(out))
	span.SetAttributes(
		attribute.Int("sentence_count", len(res.Ranked)),
		attribute.Int("vocabulary_size", res.VocabularySize),
		attribute.Int("selected", res.Selected))

	logger.Debug("text summarized",
		slog.Int("sentence_count", len(res.Ranked)),
		slog.Int("vocabulary_size", res.VocabularySize),
		slog.Int("selected", res.Selected),
		slog.Duration("duration", duration))

	return &entity.Summary{
		Text:           out,
		Sentences:      sentences,
		SentenceCount:  len(res.Ranked),
		VocabularySize: res.VocabularySize,
		CreatedAt:      t.now(),
	}, nil
}

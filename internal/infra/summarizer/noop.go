package summarizer

import (
	"context"
	"time"
	"unicode/utf8"

	"perangkum/internal/domain/entity"
)

// DefaultTruncateLength is the number of runes NoOp keeps.
const DefaultTruncateLength = 500

// NoOp is a summarizer that returns the original text truncated to a fixed
// number of runes. It backs the fallback used when a text has nothing to
// score, and is handy in tests.
type NoOp struct {
	maxLength       int
	metricsRecorder SummaryMetricsRecorder
	now             func() time.Time
}

// NewNoOp creates a NoOp summarizer that keeps DefaultTruncateLength runes.
func NewNoOp() *NoOp {
	return &NoOp{
		maxLength:       DefaultTruncateLength,
		metricsRecorder: NewPrometheusSummaryMetrics(),
		now:             time.Now,
	}
}

// WithMetricsRecorder replaces the metrics recorder and returns n.
func (n *NoOp) WithMetricsRecorder(r SummaryMetricsRecorder) *NoOp {
	n.metricsRecorder = r
	return n
}

// Summarize returns text cut to the first maxLength runes, with "..."
// appended when something was cut. It never fails.
func (n *NoOp) Summarize(_ context.Context, text string) (*entity.Summary, error) {
	out := text
	if utf8.RuneCountInString(text) > n.maxLength {
		out = string([]rune(text)[:n.maxLength]) + "..."
	}
	n.metricsRecorder.RecordOutcome(OutcomeFallback)
	return &entity.Summary{
		Text:      out,
		Fallback:  true,
		CreatedAt: n.now(),
	}, nil
}

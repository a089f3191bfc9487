package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Summary outcomes recorded by RecordOutcome.
const (
	OutcomeSuccess         = "success"
	OutcomeEmptyVocabulary = "empty_vocabulary"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeFallback        = "fallback"
)

// SummaryMetricsRecorder defines the interface for recording summary-related metrics.
// Tests inject a recorder that captures the calls instead of touching Prometheus.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in runes.
	RecordLength(length int)

	// RecordSentenceCount records how many sentences the input was split into.
	RecordSentenceCount(count int)

	// RecordOutcome increments the counter for one of the Outcome* values.
	RecordOutcome(outcome string)

	// RecordDuration records the time taken to generate a summary.
	RecordDuration(duration time.Duration)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus metrics.
type PrometheusSummaryMetrics struct {
	lengthHistogram   prometheus.Histogram
	sentenceHistogram prometheus.Histogram
	outcomeCounter    *prometheus.CounterVec
	durationHistogram prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogram gets an existing histogram or creates a new one if it doesn't exist
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// getOrCreateCounterVec gets an existing counter vector or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusSummaryMetrics creates the Prometheus-based recorder.
// It is a singleton so repeated construction in tests does not register twice.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summary_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 200, 400, 800, 1600, 3200},
			}),
			sentenceHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summary_input_sentences",
				Help:    "Number of sentences in summarized texts",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			}),
			outcomeCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summaries_total",
				Help: "Total number of summarization calls by outcome",
			}, []string{"outcome"}),
			durationHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "summarization_duration_seconds",
				Help:    "Time taken to rank the sentences of a text",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.RecordLength
func (p *PrometheusSummaryMetrics) RecordLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}

// RecordSentenceCount implements SummaryMetricsRecorder.RecordSentenceCount
func (p *PrometheusSummaryMetrics) RecordSentenceCount(count int) {
	p.sentenceHistogram.Observe(float64(count))
}

// RecordOutcome implements SummaryMetricsRecorder.RecordOutcome
func (p *PrometheusSummaryMetrics) RecordOutcome(outcome string) {
	p.outcomeCounter.WithLabelValues(outcome).Inc()
}

// RecordDuration implements SummaryMetricsRecorder.RecordDuration
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

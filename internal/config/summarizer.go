// Package config loads the application configuration shared by the API
// server, the CLI and the export worker.
package config

import (
	"errors"
	"fmt"

	"perangkum/internal/infra/summarizer"
	"perangkum/internal/stopwords"
	"perangkum/pkg/config"
	"perangkum/pkg/extractive"
)

// SummarizerConfig holds the summarization settings.
type SummarizerConfig struct {
	// TopK is the number of sentences per summary.
	// Default: 3
	TopK int

	// MinTokenLength is the minimum rune length of a vocabulary token.
	// Default: 2
	MinTokenLength int

	// StopWordsLocale selects a built-in stop-word list.
	// Default: "id"
	StopWordsLocale string

	// StopWordsFile is a YAML stop-word file. It overrides StopWordsLocale.
	StopWordsFile string

	// Parallelism bounds concurrent summaries in batch operations.
	// Default: 4
	Parallelism int

	// FallbackOnEmpty returns the truncated original text when a text has no
	// scorable vocabulary.
	// Default: false
	FallbackOnEmpty bool
}

// LoadSummarizerConfig reads the SUMMARY_* environment variables.
func LoadSummarizerConfig() (*SummarizerConfig, error) {
	cfg := &SummarizerConfig{
		TopK:            config.GetEnvInt("SUMMARY_TOP_K", extractive.DefaultTopK),
		MinTokenLength:  config.GetEnvInt("SUMMARY_MIN_TOKEN_LENGTH", extractive.DefaultMinTokenLength),
		StopWordsLocale: config.GetEnvString("SUMMARY_STOPWORDS_LOCALE", stopwords.DefaultLocale),
		StopWordsFile:   config.GetEnvString("SUMMARY_STOPWORDS_FILE", ""),
		Parallelism:     config.GetEnvInt("SUMMARY_PARALLELISM", 4),
		FallbackOnEmpty: config.GetEnvBool("SUMMARY_FALLBACK_ON_EMPTY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summarizer configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *SummarizerConfig) Validate() error {
	var errs []error
	if err := summarizer.ValidateTopK(c.TopK); err != nil {
		errs = append(errs, fmt.Errorf("SUMMARY_TOP_K: %w", err))
	}
	if err := summarizer.ValidateMinTokenLength(c.MinTokenLength); err != nil {
		errs = append(errs, fmt.Errorf("SUMMARY_MIN_TOKEN_LENGTH: %w", err))
	}
	if err := config.ValidateIntRange("SUMMARY_PARALLELISM", c.Parallelism, 1, 64); err != nil {
		errs = append(errs, err)
	}
	if c.StopWordsFile == "" && c.StopWordsLocale == "" {
		errs = append(errs, errors.New("SUMMARY_STOPWORDS_LOCALE cannot be empty"))
	}
	return errors.Join(errs...)
}

// StopWords returns the configured list, reading StopWordsFile when set.
func (c *SummarizerConfig) StopWords() (stopwords.List, error) {
	if c.StopWordsFile != "" {
		list, err := stopwords.Load(c.StopWordsFile)
		if err != nil {
			return stopwords.List{}, fmt.Errorf("SUMMARY_STOPWORDS_FILE: %w", err)
		}
		return list, nil
	}
	list, err := stopwords.ForLocale(c.StopWordsLocale)
	if err != nil {
		return stopwords.List{}, fmt.Errorf("SUMMARY_STOPWORDS_LOCALE: %w", err)
	}
	return list, nil
}

// Options builds the extractive options for the configured settings.
func (c *SummarizerConfig) Options() (extractive.Options, error) {
	list, err := c.StopWords()
	if err != nil {
		return extractive.Options{}, err
	}
	opts := extractive.Options{
		TopK:           c.TopK,
		MinTokenLength: c.MinTokenLength,
		StopWords:      list.Set(),
	}
	return opts, opts.Validate()
}

package extractive

import (
	"fmt"
	"strings"
)

const (
	// DefaultTopK is the number of sentences selected when no TopK is configured.
	DefaultTopK = 3

	// DefaultMinTokenLength keeps tokens of two or more characters,
	// which drops single letters, digits and punctuation.
	DefaultMinTokenLength = 2
)

// StopWords is a set of lowercase words excluded from scoring.
type StopWords map[string]struct{}

// NewStopWords builds a StopWords set. Words are lowercased and trimmed;
// blank entries are ignored.
func NewStopWords(words ...string) StopWords {
	sw := make(StopWords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		sw[w] = struct{}{}
	}
	return sw
}

// Contains reports whether word is in the set. A nil set contains nothing.
func (sw StopWords) Contains(word string) bool {
	_, ok := sw[word]
	return ok
}

// Len returns the number of words in the set.
func (sw StopWords) Len() int {
	return len(sw)
}

// Options configures a summarization call.
type Options struct {
	// TopK is the maximum number of sentences in the summary.
	// It is clamped to the number of sentences in the document.
	// Must be positive.
	TopK int

	// StopWords are excluded from the vocabulary. They are matched against
	// lowercased tokens, so the set itself must be lowercase (NewStopWords
	// takes care of that).
	StopWords StopWords

	// MinTokenLength is the minimum length, in runes, of a token that enters
	// the vocabulary. Must be positive.
	MinTokenLength int
}

// DefaultOptions returns Options with TopK=3, MinTokenLength=2 and no stop words.
func DefaultOptions() Options {
	return Options{
		TopK:           DefaultTopK,
		MinTokenLength: DefaultMinTokenLength,
	}
}

// Validate checks the options and returns an error wrapping ErrInvalidArgument.
func (o Options) Validate() error {
	if o.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidArgument, o.TopK)
	}
	if o.MinTokenLength <= 0 {
		return fmt.Errorf("%w: min_token_length must be positive, got %d", ErrInvalidArgument, o.MinTokenLength)
	}
	return nil
}

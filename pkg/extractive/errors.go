package extractive

import "errors"

// Sentinel errors returned by Summarize and Rank.
var (
	// ErrInvalidArgument indicates a malformed call, such as a non-positive
	// TopK or MinTokenLength.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyVocabulary indicates that no sentence produced a scorable token
	// after tokenization and stop-word removal. It is a terminal condition:
	// retrying with the same input and options always fails the same way.
	ErrEmptyVocabulary = errors.New("empty vocabulary: document contains no scorable tokens")
)

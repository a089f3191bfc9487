package entity

import "time"

// RankedSentence is one sentence of a source text with its TF-IDF score.
// Index is the sentence's position in the source.
type RankedSentence struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Summary is the result of summarizing one source (raw text, a stored
// document, a web page or a feed item).
type Summary struct {
	Source         string           `json:"source"`
	Text           string           `json:"summary"`
	Sentences      []RankedSentence `json:"sentences,omitempty"`
	SentenceCount  int              `json:"sentence_count"`
	VocabularySize int              `json:"vocabulary_size"`
	// Fallback is set when the text could not be scored and was truncated instead.
	Fallback  bool      `json:"fallback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryResult pairs a source with either its summary or the error that
// prevented it. Batch operations return one per item.
type SummaryResult struct {
	Source  string
	Summary *Summary
	Err     error
}

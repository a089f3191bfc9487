// Package extractive implements TF-IDF extractive summarization.
//
// A document is split into sentences on ". ", every sentence is treated as a
// document of its own for TF-IDF purposes, and each sentence is scored by the
// sum of its L2-normalized TF-IDF weights. The highest-scoring sentences are
// returned in score order, joined with ". ".
//
// All functions are pure and safe for concurrent use.
//
// Example:
//
//	opts := extractive.DefaultOptions()
//	opts.StopWords = extractive.NewStopWords("dan", "di", "ke", "yang")
//	summary, err := extractive.Summarize(text, opts)
//	if errors.Is(err, extractive.ErrEmptyVocabulary) {
//	    // nothing to score
//	}
package extractive

import (
	"fmt"
	"sort"
	"strings"
)

// ScoredSentence is a sentence with its score and its position in the
// original split.
type ScoredSentence struct {
	Index int
	Text  string
	Score float64
}

// Result is the outcome of ranking a document.
type Result struct {
	// Ranked holds every sentence of the document ordered by descending
	// score. Sentences with equal scores keep their original relative order.
	Ranked []ScoredSentence

	// Selected is the number of leading entries of Ranked that form the
	// summary: min(TopK, len(Ranked)).
	Selected int

	// VocabularySize is the number of distinct scorable terms.
	VocabularySize int
}

// Summary returns the selected sentences joined with ". " in ranked order.
func (r *Result) Summary() string {
	texts := make([]string, r.Selected)
	for i := 0; i < r.Selected; i++ {
		texts[i] = r.Ranked[i].Text
	}
	return strings.Join(texts, SentenceSeparator)
}

// Sentences returns the selected sentences in ranked order.
func (r *Result) Sentences() []ScoredSentence {
	return r.Ranked[:r.Selected]
}

// Rank scores every sentence of document and orders them by descending
// score. It returns ErrInvalidArgument for invalid options and
// ErrEmptyVocabulary when no sentence yields a scorable token.
func Rank(document string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sentences := SplitSentences(document)
	tokenized := make([][]string, len(sentences))
	for i, s := range sentences {
		tokenized[i] = Tokenize(s, opts.MinTokenLength, opts.StopWords)
	}

	m := buildMatrix(tokenized)
	if len(m.vocabulary) == 0 {
		return nil, fmt.Errorf("rank %d sentences: %w", len(sentences), ErrEmptyVocabulary)
	}

	ranked := make([]ScoredSentence, len(sentences))
	for i, s := range sentences {
		ranked[i] = ScoredSentence{Index: i, Text: s, Score: m.rowSum(i)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	selected := opts.TopK
	if selected > len(ranked) {
		selected = len(ranked)
	}

	return &Result{
		Ranked:         ranked,
		Selected:       selected,
		VocabularySize: len(m.vocabulary),
	}, nil
}

// Summarize returns the top opts.TopK sentences of document joined with ". "
// in descending score order. See Rank for the error conditions.
func Summarize(document string, opts Options) (string, error) {
	res, err := Rank(document, opts)
	if err != nil {
		return "", err
	}
	return res.Summary(), nil
}

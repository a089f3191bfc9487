package extractive

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SentenceSeparator is the literal delimiter used both to split a document
// into sentences and to join the selected sentences back together.
const SentenceSeparator = ". "

// wordPattern matches maximal runs of word characters: Unicode letters,
// Unicode numbers and the underscore.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// SplitSentences splits text on every occurrence of ". ".
//
// The split is deliberately naive: abbreviations, decimals and other
// terminators ("!", "?", ".\n") are not recognized, and pieces are not
// trimmed. An empty text yields a single empty sentence.
func SplitSentences(text string) []string {
	return strings.Split(text, SentenceSeparator)
}

// Tokenize lowercases sentence and returns its word tokens that are at least
// minLen runes long and not in stopWords, in order of appearance.
func Tokenize(sentence string, minLen int, stopWords StopWords) []string {
	words := wordPattern.FindAllString(strings.ToLower(sentence), -1)
	tokens := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < minLen {
			continue
		}
		if stopWords.Contains(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

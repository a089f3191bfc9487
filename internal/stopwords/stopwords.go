// Package stopwords provides built-in stop-word lists per locale and a loader
// for YAML stop-word files, so a deployment can swap the list without code
// changes.
package stopwords

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"perangkum/pkg/extractive"
)

// DefaultLocale is the locale used when none is configured.
const DefaultLocale = "id"

// ErrUnknownLocale is returned by ForLocale for a locale without a built-in list.
var ErrUnknownLocale = errors.New("unknown stop-word locale")

var builtin = map[string][]string{
	// Indonesian function words.
	"id": {
		"dan", "di", "ke", "dari", "untuk", "yang", "pada", "dengan", "dalam", "atau", "oleh",
		"sebagai", "adalah", "ini", "itu", "tidak", "bukan", "saya", "kami", "kita", "anda",
		"dia", "mereka", "ada", "jika", "karena", "tetapi", "namun", "bagaimana", "mengapa",
		"apa", "dimana", "kapan", "siapa", "dapat", "harus", "akan", "sudah", "belum", "bisa",
	},
	"en": {
		"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
		"do", "does", "did", "have", "has", "had", "will", "would", "could", "should",
		"may", "might", "can", "not", "no", "and", "or", "but", "if", "then",
		"than", "so", "as", "at", "by", "for", "from", "in", "into", "of",
		"on", "to", "with", "about", "it", "its", "this", "that", "these", "those",
		"what", "which", "who", "how", "when", "where", "why", "you", "we", "they",
		"he", "she", "his", "her", "our", "their", "i", "me", "my", "us", "them",
	},
}

// List is a named stop-word list.
type List struct {
	Locale string   `yaml:"locale"`
	Words  []string `yaml:"words"`
}

// Set converts the list to an extractive.StopWords set.
func (l List) Set() extractive.StopWords {
	return extractive.NewStopWords(l.Words...)
}

// Locales returns the locales that have a built-in list, sorted.
func Locales() []string {
	locales := make([]string, 0, len(builtin))
	for l := range builtin {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// ForLocale returns the built-in list for locale. Locale matching is
// case-insensitive.
func ForLocale(locale string) (List, error) {
	key := strings.ToLower(strings.TrimSpace(locale))
	words, ok := builtin[key]
	if !ok {
		return List{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownLocale, locale, strings.Join(Locales(), ", "))
	}
	cp := make([]string, len(words))
	copy(cp, words)
	return List{Locale: key, Words: cp}, nil
}

// Load reads a YAML stop-word file of the form:
//
//	locale: id
//	words:
//	  - dan
//	  - yang
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return List{}, fmt.Errorf("read stop-word file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML stop-word document. A document without words is
// rejected, because an empty list silently disables filtering.
func Parse(data []byte) (List, error) {
	var l List
	if err := yaml.Unmarshal(data, &l); err != nil {
		return List{}, fmt.Errorf("parse stop-word file: %w", err)
	}
	if len(l.Words) == 0 {
		return List{}, errors.New("stop-word file must contain at least one word")
	}
	return l, nil
}

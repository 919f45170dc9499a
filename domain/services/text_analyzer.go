package services

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// TextAnalyzer provides text analysis capabilities for the domain
type TextAnalyzer interface {
	// TokenizeWords breaks text into a set of unique, normalized words
	TokenizeWords(text string) map[string]bool

	// IsStopWord reports whether a normalized word is too common to match on
	IsStopWord(word string) bool

	// Normalize reduces a single word to the form used for matching
	Normalize(word string) string
}

// DefaultTextAnalyzer lower-cases and singularizes words so "Users" and
// "user" match the same keyword.
type DefaultTextAnalyzer struct {
	stopWords map[string]bool
}

// NewDefaultTextAnalyzer creates a new text analyzer with common English stop words
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	ta := &DefaultTextAnalyzer{stopWords: make(map[string]bool)}
	for _, w := range defaultStopWords {
		ta.stopWords[ta.Normalize(w)] = true
	}
	return ta
}

// Normalize lower-cases and singularizes a word
func (ta *DefaultTextAnalyzer) Normalize(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	return inflection.Singular(word)
}

// TokenizeWords splits on anything that is not a letter or digit
func (ta *DefaultTextAnalyzer) TokenizeWords(text string) map[string]bool {
	words := make(map[string]bool)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		words[ta.Normalize(f)] = true
	}
	return words
}

// IsStopWord expects a word already passed through Normalize
func (ta *DefaultTextAnalyzer) IsStopWord(word string) bool {
	return ta.stopWords[word]
}

// defaultStopWords are common English words plus request verbs that say
// nothing about the diagram itself
var defaultStopWords = []string{
	"the", "be", "to", "of", "and", "in", "that", "have", "it", "for",
	"not", "on", "with", "as", "you", "do", "at", "this", "but", "by",
	"from", "we", "or", "an", "will", "my", "all", "would", "there",
	"their", "what", "so", "up", "out", "if", "about", "who", "get",
	"which", "me", "when", "make", "can", "like", "just", "into", "your",
	"some", "could", "them", "other", "than", "then", "now", "only",
	"its", "over", "also", "after", "use", "how", "our", "way", "new",
	"want", "any", "these", "give", "most", "us", "is", "was", "are",
	"been", "has", "had", "were", "should", "too", "very", "please",
	"create", "build", "app", "application",
}

package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// Tokenizer splits text into lower-cased tokens
type Tokenizer interface {
	Tokenize(text string) []string
}

// LetterTokenizer keeps only the letters a-z and whitespace. Any other rune
// is deleted without inserting a separator, so "abc1def" becomes one token
// "abcdef".
type LetterTokenizer struct{}

func (LetterTokenizer) Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(text))
	return strings.Fields(cleaned)
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// WordTokenizer returns maximal runs of Unicode word characters (letters,
// digits and underscore).
type WordTokenizer struct{}

func (WordTokenizer) Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

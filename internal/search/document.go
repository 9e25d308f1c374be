package search

import (
	"regexp"
	"strings"
)

// Document is one row of the term-document matrix
type Document struct {
	ID      string
	Content string
	Vector  []float64
}

// analyzerPattern matches runs of two or more word characters; single
// characters never become vocabulary entries.
var analyzerPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize splits text into the vectorizer's vocabulary tokens
func Tokenize(text string) []string {
	return analyzerPattern.FindAllString(strings.ToLower(text), -1)
}

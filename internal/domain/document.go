package domain

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is a supported document format
type Extension string

const (
	ExtensionPDF  Extension = "pdf"
	ExtensionDOCX Extension = "docx"
	ExtensionTXT  Extension = "txt"
)

// SupportedExtensions lists the formats the reader understands, in listing order.
var SupportedExtensions = []Extension{ExtensionPDF, ExtensionDOCX, ExtensionTXT}

// ParseExtension resolves the format of a file name. When caseInsensitive is
// false only lower-case suffixes match.
func ParseExtension(name string, caseInsensitive bool) (Extension, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if caseInsensitive {
		ext = strings.ToLower(ext)
	}
	for _, supported := range SupportedExtensions {
		if ext == string(supported) {
			return supported, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// Document is a file whose text has been extracted. It is never mutated
// after the reader returns it.
type Document struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Extension Extension `json:"extension"`
	Text      string    `json:"text"`
}

// TermFrequencies maps a stemmed token to its occurrence count
type TermFrequencies map[string]int

// TermCount is a single entry of a TermFrequencies map
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Total returns the sum of all counts, which equals the number of tokens
// that were accumulated.
func (tf TermFrequencies) Total() int {
	total := 0
	for _, c := range tf {
		total += c
	}
	return total
}

// Magnitude returns the Euclidean norm of the count vector
func (tf TermFrequencies) Magnitude() float64 {
	var sum float64
	for _, c := range tf {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}

// Top returns at most n entries ordered by count descending, then term ascending.
func (tf TermFrequencies) Top(n int) []TermCount {
	counts := make([]TermCount, 0, len(tf))
	for term, c := range tf {
		counts = append(counts, TermCount{Term: term, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Term < counts[j].Term
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

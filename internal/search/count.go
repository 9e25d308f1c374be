package search

import (
	"fmt"
	"math"

	"github.com/knowledge-engine/docretrieval/internal/domain"
)

// Mode selects a similarity strategy. The two modes produce scores on
// different scales and are not comparable with each other.
type Mode string

const (
	// ModeTFIDF scores in [0,1] relative to the searched corpus
	ModeTFIDF Mode = "tfidf"
	// ModeCount scores raw term counts in [0,100], one document at a time
	ModeCount Mode = "count"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTFIDF, ModeCount:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

// CountCosine returns the cosine similarity of two raw term-count vectors as
// a percentage. The dot product runs over shared terms only; magnitudes use
// every term. If either vector has zero magnitude the score is 0.
func CountCosine(query, doc domain.TermFrequencies) float64 {
	// iterate the smaller map
	small, large := query, doc
	if len(small) > len(large) {
		small, large = large, small
	}

	var dotProduct float64
	for term, count := range small {
		if other, ok := large[term]; ok {
			dotProduct += float64(count) * float64(other)
		}
	}

	magnitude := query.Magnitude() * doc.Magnitude()
	if magnitude == 0 {
		return 0
	}
	return math.Min(100, dotProduct/magnitude*100)
}

package analysis

import "github.com/knowledge-engine/docretrieval/internal/domain"

// Accumulate counts token occurrences
func Accumulate(tokens []string) domain.TermFrequencies {
	tf := make(domain.TermFrequencies, len(tokens))
	for _, token := range tokens {
		tf[token]++
	}
	return tf
}

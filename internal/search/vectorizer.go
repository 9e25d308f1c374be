package search

import (
	"math"
)

// Vectorizer turns text into a vector
type Vectorizer interface {
	Fit(docs []string)
	Transform(text string) []float64
}

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
// with smoothed IDF and L2-normalised rows.
type TFIDFVectorizer struct {
	Vocabulary map[string]int
	IDF        map[string]float64
}

func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Vocabulary: make(map[string]int),
		IDF:        make(map[string]float64),
	}
}

// Fit analyzes the corpus to build vocabulary and IDF stats. Calling Fit
// again replaces the previous state.
func (v *TFIDFVectorizer) Fit(docs []string) {
	v.Vocabulary = make(map[string]int)
	v.IDF = make(map[string]float64)

	docCount := float64(len(docs))
	wordDocCounts := make(map[string]int)

	for _, doc := range docs {
		seenInDoc := make(map[string]bool)
		for _, token := range Tokenize(doc) {
			if !seenInDoc[token] {
				wordDocCounts[token]++
				seenInDoc[token] = true
			}
			if _, exists := v.Vocabulary[token]; !exists {
				v.Vocabulary[token] = len(v.Vocabulary)
			}
		}
	}

	for word, count := range wordDocCounts {
		// idf = ln((1 + N) / (1 + df)) + 1
		v.IDF[word] = math.Log((1+docCount)/(1+float64(count))) + 1
	}
}

// Transform converts text to a unit-length vector over the learned
// vocabulary. Tokens outside the vocabulary are ignored; text with no known
// tokens yields the zero vector.
func (v *TFIDFVectorizer) Transform(text string) []float64 {
	vector := make([]float64, len(v.Vocabulary))

	counts := make(map[string]float64)
	for _, token := range Tokenize(text) {
		counts[token]++
	}

	var norm float64
	for token, count := range counts {
		if idx, exists := v.Vocabulary[token]; exists {
			weight := count * v.IDF[token]
			vector[idx] = weight
			norm += weight * weight
		}
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector
}

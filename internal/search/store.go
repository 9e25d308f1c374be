package search

import (
	"math"
	"sort"
)

// SearchResult holds a matching document and its score
type SearchResult struct {
	Document *Document
	Score    float64
}

// VectorStore scores a fixed set of documents against a query with TF-IDF
// weighting. The query takes part in fitting, so IDF is computed over the
// documents plus the query.
type VectorStore struct {
	Documents  []*Document
	Vectorizer Vectorizer
}

func NewVectorStore() *VectorStore {
	return &VectorStore{
		Documents:  make([]*Document, 0),
		Vectorizer: NewTFIDFVectorizer(),
	}
}

// AddDocuments appends documents to the store. Vectors are computed at
// search time.
func (vs *VectorStore) AddDocuments(docs []*Document) {
	vs.Documents = append(vs.Documents, docs...)
}

// Search fits the vectorizer on every document and the query, then returns
// one result per document ranked by cosine similarity. topK <= 0 keeps all
// results.
func (vs *VectorStore) Search(query string, topK int) []SearchResult {
	if len(vs.Documents) == 0 {
		return nil
	}

	corpus := make([]string, 0, len(vs.Documents)+1)
	for _, d := range vs.Documents {
		corpus = append(corpus, d.Content)
	}
	corpus = append(corpus, query)
	vs.Vectorizer.Fit(corpus)

	queryVector := vs.Vectorizer.Transform(query)
	results := make([]SearchResult, 0, len(vs.Documents))
	for _, doc := range vs.Documents {
		doc.Vector = vs.Vectorizer.Transform(doc.Content)
		results = append(results, SearchResult{
			Document: doc,
			Score:    CosineSimilarity(queryVector, doc.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return lessResult(results[i], results[j])
	})

	if topK > 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}

// lessResult orders higher scores first and breaks ties by document ID
func lessResult(a, b SearchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Document.ID < b.Document.ID
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return math.Min(1, dotProduct/(math.Sqrt(normA)*math.Sqrt(normB)))
}

package analysis

import (
	"fmt"

	"github.com/knowledge-engine/docretrieval/internal/domain"
)

// Preprocessor kinds accepted by NewPreprocessor
const (
	PreprocessorRule    = "rule"
	PreprocessorLibrary = "library"
)

// Result holds every intermediate stage of preprocessing one text
type Result struct {
	OriginalTokens []string               `json:"original_tokens"`
	FilteredTokens []string               `json:"filtered_tokens"`
	StemmedTokens  []string               `json:"stemmed_tokens"`
	TermWeights    domain.TermFrequencies `json:"term_weights"`
}

// TextPreprocessor turns raw text into stemmed tokens and their frequencies
type TextPreprocessor interface {
	Name() string
	Process(text string) *Result
}

// Pipeline is a TextPreprocessor assembled from a tokenizer, a stopword
// filter and a stemmer.
type Pipeline struct {
	name      string
	tokenizer Tokenizer
	filter    StopwordFilter
	stemmer   Stemmer
}

// NewPipeline assembles a custom preprocessing pipeline
func NewPipeline(name string, tokenizer Tokenizer, filter StopwordFilter, stemmer Stemmer) *Pipeline {
	return &Pipeline{
		name:      name,
		tokenizer: tokenizer,
		filter:    filter,
		stemmer:   stemmer,
	}
}

// NewRulePreprocessor keeps letters only, drops stopwords and single-letter
// tokens, and strips Indonesian affixes by rule.
func NewRulePreprocessor(stopwords StopwordSet) *Pipeline {
	return NewPipeline(
		PreprocessorRule,
		LetterTokenizer{},
		StopwordFilter{Stopwords: stopwords, MinLength: 2},
		NewAffixStemmer(),
	)
}

// NewLibraryPreprocessor splits on Unicode word boundaries, drops stopwords
// and stems with a linguistic library stemmer.
func NewLibraryPreprocessor(stopwords StopwordSet, stemmer Stemmer) *Pipeline {
	return NewPipeline(
		PreprocessorLibrary,
		WordTokenizer{},
		StopwordFilter{Stopwords: stopwords},
		stemmer,
	)
}

// NewPreprocessor builds the strategy named by kind
func NewPreprocessor(kind, language string, stopwords StopwordSet) (TextPreprocessor, error) {
	switch kind {
	case PreprocessorRule:
		return NewRulePreprocessor(stopwords), nil
	case PreprocessorLibrary:
		stemmer, err := NewLibraryStemmer(language)
		if err != nil {
			return nil, err
		}
		return NewLibraryPreprocessor(stopwords, stemmer), nil
	default:
		return nil, fmt.Errorf("unknown preprocessor %q", kind)
	}
}

func (p *Pipeline) Name() string {
	return p.name
}

// Process runs tokenize -> filter -> stem -> accumulate
func (p *Pipeline) Process(text string) *Result {
	tokens := p.tokenizer.Tokenize(text)
	filtered := p.filter.Filter(tokens)

	stemmed := make([]string, len(filtered))
	for i, token := range filtered {
		stemmed[i] = p.stemmer.Stem(token)
	}

	return &Result{
		OriginalTokens: tokens,
		FilteredTokens: filtered,
		StemmedTokens:  stemmed,
		TermWeights:    Accumulate(stemmed),
	}
}

package analysis

import (
	"fmt"
	"strings"

	sastrawi "github.com/RadhiFadlillah/go-sastrawi"
	"github.com/kljensen/snowball"
)

// Stemmer reduces a token to an approximate root. Implementations are pure
// and deterministic.
type Stemmer interface {
	Stem(word string) string
}

// Affix lists used by the rule-based stemmer, in priority order
var (
	IndonesianPrefixes = []string{"meng", "men", "me", "di", "ter", "pe", "be", "se"}
	IndonesianSuffixes = []string{"ku", "mu", "nya", "lah", "kah", "an", "i", "kan"}
)

// AffixStemmer removes the first matching prefix and then the first matching
// suffix. There is no dictionary lookup and no minimum stem length: a token
// may be reduced to a short fragment or to the empty string.
type AffixStemmer struct {
	Prefixes []string
	Suffixes []string
}

// NewAffixStemmer returns an AffixStemmer with the Indonesian affix lists
func NewAffixStemmer() *AffixStemmer {
	return &AffixStemmer{
		Prefixes: IndonesianPrefixes,
		Suffixes: IndonesianSuffixes,
	}
}

func (s *AffixStemmer) Stem(word string) string {
	return s.removeSuffix(s.removePrefix(word))
}

func (s *AffixStemmer) removePrefix(word string) string {
	for _, prefix := range s.Prefixes {
		if strings.HasPrefix(word, prefix) {
			return word[len(prefix):]
		}
	}
	return word
}

func (s *AffixStemmer) removeSuffix(word string) string {
	for _, suffix := range s.Suffixes {
		if strings.HasSuffix(word, suffix) {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// LanguageIndonesian selects the dictionary-based Sastrawi stemmer
const LanguageIndonesian = "indonesian"

// NewLibraryStemmer returns a linguistic stemmer for language: Sastrawi for
// Indonesian, Snowball for the languages it supports.
func NewLibraryStemmer(language string) (Stemmer, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == LanguageIndonesian {
		return &sastrawiStemmer{stemmer: sastrawi.NewStemmer(sastrawi.DefaultDictionary())}, nil
	}
	if _, err := snowball.Stem("probe", language, true); err != nil {
		return nil, fmt.Errorf("unsupported stemmer language %q: %w", language, err)
	}
	return &snowballStemmer{language: language}, nil
}

type sastrawiStemmer struct {
	stemmer sastrawi.Stemmer
}

func (s *sastrawiStemmer) Stem(word string) string {
	return s.stemmer.Stem(word)
}

type snowballStemmer struct {
	language string
}

func (s *snowballStemmer) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil {
		// language was validated at construction
		return word
	}
	return stemmed
}

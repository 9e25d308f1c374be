package analysis

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knowledge-engine/docretrieval/internal/domain"
)

// StopwordSet is a read-only set of words excluded from analysis
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from the given words
func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether word is a stopword
func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// DefaultStopwords returns the built-in Indonesian stopword set
func DefaultStopwords() StopwordSet {
	return NewStopwordSet(
		"yang", "di", "ke", "dari", "pada", "dalam", "untuk", "dan", "atau",
		"dengan", "ini", "itu", "bagi", "tentang", "maka", "sebab", "serta",
		"jika", "karena", "namun", "setelah", "kepada", "hal", "sudah",
	)
}

// LoadStopwords reads a whitespace-separated word list. A missing file yields
// an empty set together with an error wrapping domain.ErrStopwordsFileMissing,
// so callers can report it and continue.
func LoadStopwords(path string) (StopwordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StopwordSet{}, fmt.Errorf("%w: %s", domain.ErrStopwordsFileMissing, path)
		}
		return nil, fmt.Errorf("failed to read stopwords file: %w", err)
	}
	return NewStopwordSet(strings.Fields(string(data))...), nil
}

// StopwordFilter drops stopwords and, when MinLength is positive, tokens
// shorter than MinLength runes.
type StopwordFilter struct {
	Stopwords StopwordSet
	MinLength int
}

// Filter returns the kept tokens in their original order
func (f StopwordFilter) Filter(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if f.Stopwords.Contains(token) {
			continue
		}
		if f.MinLength > 0 && utf8.RuneCountInString(token) < f.MinLength {
			continue
		}
		kept = append(kept, token)
	}
	return kept
}

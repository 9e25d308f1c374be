package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/knowledge-engine/docretrieval/internal/domain"
)

// Reader extracts the raw text of a document based on its extension
type Reader struct {
	caseInsensitive bool
}

// NewReader creates a reader. caseInsensitive controls whether ".PDF" is
// treated like ".pdf".
func NewReader(caseInsensitive bool) *Reader {
	return &Reader{caseInsensitive: caseInsensitive}
}

// Read returns the full text of the file at path. Unknown extensions fail
// with domain.ErrUnsupportedFormat before the file is opened; every other
// failure wraps domain.ErrReadFailure.
func (r *Reader) Read(path string) (*domain.Document, error) {
	name := filepath.Base(path)
	ext, err := domain.ParseExtension(name, r.caseInsensitive)
	if err != nil {
		return nil, err
	}

	var text string
	switch ext {
	case domain.ExtensionPDF:
		text, err = readPDF(path)
	case domain.ExtensionDOCX:
		text, err = readDOCX(path)
	case domain.ExtensionTXT:
		text, err = readTXT(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrReadFailure, name, err)
	}

	return &domain.Document{
		Path:      path,
		Name:      name,
		Extension: ext,
		Text:      text,
	}, nil
}

func readTXT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8")
	}
	return string(data), nil
}

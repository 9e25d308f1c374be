package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knowledge-engine/docretrieval/internal/domain"
)

// DocumentSource defines the interface for locating documents to analyse
type DocumentSource interface {
	// List returns the names of supported documents, sorted by name
	List() ([]string, error)
	// Path resolves a listed name to a readable file path
	Path(name string) (string, error)
	Root() string
}

// DirectoryStorage implements DocumentSource over one local directory.
// Subdirectories are not traversed.
type DirectoryStorage struct {
	baseDir         string
	caseInsensitive bool
}

// NewDirectoryStorage opens a directory-backed document source
func NewDirectoryStorage(baseDir string, caseInsensitive bool) (*DirectoryStorage, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open directory: %w", domain.ErrReadFailure, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrReadFailure, baseDir)
	}
	return &DirectoryStorage{
		baseDir:         baseDir,
		caseInsensitive: caseInsensitive,
	}, nil
}

func (ds *DirectoryStorage) Root() string {
	return ds.baseDir
}

// List returns the regular files whose extension is pdf, docx or txt
func (ds *DirectoryStorage) List() ([]string, error) {
	entries, err := os.ReadDir(ds.baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list directory: %w", domain.ErrReadFailure, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := domain.ParseExtension(entry.Name(), ds.caseInsensitive); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Path joins name onto the directory. Names that would escape the directory
// are rejected.
func (ds *DirectoryStorage) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == ".." {
		return "", fmt.Errorf("%w: invalid document name %q", domain.ErrEmptySelection, name)
	}
	return filepath.Join(ds.baseDir, name), nil
}

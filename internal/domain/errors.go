package domain

import "errors"

// Errors surfaced by the retrieval actions. Callers match them with errors.Is.
var (
	// ErrUnsupportedFormat indicates a file extension outside pdf/docx/txt
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrReadFailure indicates an I/O error or a malformed document
	ErrReadFailure = errors.New("read failure")

	// ErrEncrypted indicates a PDF that could not be opened with the empty password
	ErrEncrypted = errors.New("encrypted document")

	// ErrEmptyQuery indicates a search was requested without query text
	ErrEmptyQuery = errors.New("empty query")

	// ErrEmptySelection indicates no directory or document was selected
	ErrEmptySelection = errors.New("empty selection")

	// ErrInvalidInput indicates a malformed request parameter
	ErrInvalidInput = errors.New("invalid input")

	// ErrStopwordsFileMissing indicates the configured stopword file does not exist
	ErrStopwordsFileMissing = errors.New("stopwords file missing")
)

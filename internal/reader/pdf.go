package reader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/knowledge-engine/docretrieval/internal/domain"
)

// readPDF concatenates the plain text of every page in page order.
// Encrypted files are opened with the empty password by the pdf package;
// anything stronger is reported as domain.ErrEncrypted.
func readPDF(path string) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", domain.ErrEncrypted
		}
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

// Package pdf wraps document-container access: embedded-text extraction and
// page rasterization. Callers always pass a page range so large documents
// are never materialized whole.
package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in the document at path.
func PageCount(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("open PDF: %w", err)
	}
	return r.NumPage(), nil
}

// ExtractText pulls the embedded text layer for pages [startPage, endPage]
// (1-indexed, inclusive). Scanned pages yield empty or near-empty output;
// the caller decides whether the result is usable.
func ExtractText(path string, startPage, endPage int) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	numPages := r.NumPage()
	if startPage < 1 {
		startPage = 1
	}
	if endPage > numPages {
		endPage = numPages
	}

	var buf bytes.Buffer
	for i := startPage; i <= endPage; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		buf.WriteString(text)
		if i < endPage {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}

// Package pdftext pulls per-page plain text out of ticket PDFs.
package pdftext

import (
	"fmt"

	"github.com/dslipak/pdf"

	"github.com/dsb-tools/billet2ics/pkg/logger"
)

// Extractor reads PDF files and returns their text content page by page.
type Extractor struct {
	logger *logger.Logger
}

// NewExtractor creates a new PDF text extractor
func NewExtractor(logger *logger.Logger) *Extractor {
	return &Extractor{logger: logger.Named("pdftext")}
}

// Pages returns the plain text of every page, in page order.
func (e *Extractor) Pages(path string) ([]string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	e.logger.Debug("extracted PDF text",
		logger.String("path", path),
		logger.Int("pages", len(pages)),
	)
	return pages, nil
}

// Package pdf extracts per-page text from PDF files with a pure Go reader.
package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Name is the extractor name used in configuration.
const Name = "pdf"

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads PDF pages with github.com/ledongthuc/pdf.
type Extractor struct {
	priority int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithPriority overrides the selection priority.
func WithPriority(p int) Option {
	return func(e *Extractor) {
		e.priority = p
	}
}

// New creates a PDF extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{priority: 50}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extractor name.
func (e *Extractor) Name() string { return Name }

// Extensions returns the handled extensions.
func (e *Extractor) Extensions() []string { return []string{".pdf"} }

// Priority returns the selection priority.
func (e *Extractor) Priority() int { return e.priority }

// Extract returns one page per PDF page. Pages without a content stream, or
// whose text cannot be decoded, are returned with empty text.
func (e *Extractor) Extract(ctx context.Context, path string) (pages []domain.Page, err error) {
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("parse pdf %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]domain.Page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{Number: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf %s page %d: %v", path, i, err)
			text = ""
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}

	return pages, nil
}

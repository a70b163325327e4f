// Package minlength drops chunks too short to be worth embedding,
// such as stray page numbers and running headers.
package minlength

import (
	"context"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Processor filters out chunks shorter than a minimum character count.
type Processor struct {
	minChars int
}

// New creates a filter. A non-positive minChars keeps every chunk.
func New(minChars int) *Processor {
	if minChars < 0 {
		minChars = 0
	}
	return &Processor{minChars: minChars}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "min_length"
}

// Process returns the chunks whose text has at least minChars characters,
// preserving order.
func (p *Processor) Process(_ context.Context, _ domain.Page, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if p.minChars == 0 {
		return chunks, nil
	}

	kept := chunks[:0:0]
	for _, c := range chunks {
		if utf8.RuneCountInString(c.Text) >= p.minChars {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

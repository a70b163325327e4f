// Package chunker provides paragraph-aware text chunking and content hashing.
package chunker

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// Processor splits page text into paragraph-aligned chunks identified by
// their content hash. It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Process splits the page text into chunks tagged with the page number.
// Input chunks are ignored; this processor creates new chunks from page text.
func (p *Processor) Process(_ context.Context, page domain.Page, _ []domain.Chunk) ([]domain.Chunk, error) {
	if page.IsBlank() {
		// Blank pages produce no chunks
		return nil, nil
	}

	texts := ChunkIntelligent(page.Text, p.chunkSize)
	chunks := make([]domain.Chunk, 0, len(texts))
	for _, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         GenerateHash(text),
			Text:       text,
			PageNumber: page.Number,
		})
	}

	return chunks, nil
}

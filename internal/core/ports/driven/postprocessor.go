package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// PostProcessor turns extracted page text into chunks.
// PostProcessors are chained in a pipeline (e.g., chunking, then filtering).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a page and returns chunks.
	// If the processor creates chunks (e.g., chunker), it receives nil and returns new chunks.
	// If the processor filters or modifies chunks, it receives and returns chunks.
	Process(ctx context.Context, page domain.Page, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the page through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, page domain.Page) ([]domain.Chunk, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// TextExtractor produces per-page text from a source file.
// Each extractor handles specific file extensions (e.g., .pdf, .txt).
type TextExtractor interface {
	// Name returns the extractor name for logging and configuration.
	Name() string

	// Extensions returns the lower-case file extensions handled, with leading dot.
	Extensions() []string

	// Priority returns the selection priority (higher = preferred) when
	// several extractors handle the same extension.
	Priority() int

	// Extract returns the pages of the file in order, numbered from 1.
	// Pages whose text cannot be read are returned with empty Text.
	// An error means the file could not be opened or parsed at all.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// ExtractorRegistry selects the appropriate extractor for a file.
type ExtractorRegistry interface {
	// Extract runs the best matching extractor for path.
	// Returns domain.ErrUnsupportedType if no extractor handles the extension.
	Extract(ctx context.Context, path string) ([]domain.Page, error)

	// Register adds an extractor to the registry.
	Register(extractor TextExtractor)

	// Supports reports whether some extractor handles path's extension.
	Supports(path string) bool

	// Extensions returns all extensions that can be extracted.
	Extensions() []string
}

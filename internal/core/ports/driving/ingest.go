package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// IngestOptions controls a single ingestion run.
type IngestOptions struct {
	// Summarize replaces each new chunk with its summary before classification.
	Summarize bool

	// ChunkSize overrides the configured maximum chunk size; 0 keeps the default.
	ChunkSize int
}

// IngestService turns documents into classified, de-duplicated records.
type IngestService interface {
	// Ingest extracts the file at path and stores its new chunks.
	// source is the identifier recorded in record metadata; when empty the
	// file's base name is used.
	Ingest(ctx context.Context, path, source string, opts IngestOptions) (*domain.IngestReport, error)

	// IngestPages stores the new chunks of already extracted pages.
	IngestPages(ctx context.Context, pages []domain.Page, source string, opts IngestOptions) (*domain.IngestReport, error)

	// Supports reports whether path has an extractable file type.
	Supports(path string) bool
}

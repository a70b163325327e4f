package mcp

import (
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer synthesises answers from retrieved context.
	Answer driving.AnswerService

	// Collections provides raw retrieval and collection listing.
	Collections driving.CollectionService

	// Ingest stores new documents. Optional.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Collections == nil {
		return ErrMissingCollectionService
	}
	return nil
}

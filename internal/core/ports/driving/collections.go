package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// CollectionService exposes collection maintenance and raw retrieval.
type CollectionService interface {
	// ListCollections returns all collections with record counts.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// Open creates or loads every category collection without destroying data.
	Open(ctx context.Context, names []string) []domain.Outcome

	// Reset destroys and recreates the named collections.
	Reset(ctx context.Context, names []string) []domain.Outcome

	// QueryAllCollections returns the global top k results across collections.
	QueryAllCollections(ctx context.Context, text string, k int) []domain.QueryResult

	// Heartbeat checks the backing store and returns its latency.
	Heartbeat(ctx context.Context) (time.Duration, error)
}

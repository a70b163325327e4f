package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// CollectionBackend is the persistent engine behind the collection store.
// It owns named collections of (document, metadata, id) records, each
// independently searchable by embedding similarity.
//
// Backends do not cache handles; caching is the collection store's job.
type CollectionBackend interface {
	// CreateCollection creates a collection with the given description.
	// Returns domain.ErrAlreadyExists if it is already present.
	CreateCollection(ctx context.Context, name, description string) (*domain.Collection, error)

	// GetCollection returns an existing collection.
	// Returns domain.ErrCollectionNotFound if it does not exist.
	GetCollection(ctx context.Context, name string) (*domain.Collection, error)

	// DeleteCollection removes a collection and its records.
	// Returns domain.ErrCollectionNotFound if it does not exist.
	DeleteCollection(ctx context.Context, name string) error

	// ListCollections returns all collections with record counts.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// Add appends records to a collection. Duplicate id handling is backend specific.
	Add(ctx context.Context, collection string, records []domain.StoredRecord) error

	// GetByIDs returns the records of the collection whose ids are in ids.
	GetByIDs(ctx context.Context, collection string, ids []string) ([]domain.StoredRecord, error)

	// Query returns up to k records nearest to text, ordered by ascending score.
	Query(ctx context.Context, collection, text string, k int) ([]domain.QueryResult, error)

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Heartbeat checks the connection to the backing store.
	Heartbeat(ctx context.Context) error

	// Close releases resources.
	Close() error
}

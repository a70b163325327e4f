package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.CollectionBackend = (*Backend)(nil)

type entry struct {
	record    domain.StoredRecord
	embedding []float32
}

type collection struct {
	meta    domain.Collection
	entries []entry
	index   map[string]int
}

// Backend is an in-memory collection backend. Contents are lost when the
// process exits.
type Backend struct {
	mu          sync.RWMutex
	embedder    driven.EmbeddingService
	collections map[string]*collection
}

// NewBackend creates an empty in-memory backend.
func NewBackend(embedder driven.EmbeddingService) *Backend {
	return &Backend{
		embedder:    embedder,
		collections: make(map[string]*collection),
	}
}

// CreateCollection creates an empty collection.
func (b *Backend) CreateCollection(_ context.Context, name, description string) (*domain.Collection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.collections[name]; ok {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrAlreadyExists)
	}
	c := &collection{
		meta:  domain.Collection{Name: name, Description: description, CreatedAt: time.Now().UTC()},
		index: make(map[string]int),
	}
	b.collections[name] = c

	meta := c.meta
	return &meta, nil
}

// GetCollection returns a collection with its record count.
func (b *Backend) GetCollection(_ context.Context, name string) (*domain.Collection, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, err := b.get(name)
	if err != nil {
		return nil, err
	}
	meta := c.meta
	meta.Count = len(c.entries)
	return &meta, nil
}

// DeleteCollection removes a collection.
func (b *Backend) DeleteCollection(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.get(name); err != nil {
		return err
	}
	delete(b.collections, name)
	return nil
}

// ListCollections returns all collections sorted by name.
func (b *Backend) ListCollections(_ context.Context) ([]domain.Collection, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Collection, 0, len(b.collections))
	for _, c := range b.collections {
		meta := c.meta
		meta.Count = len(c.entries)
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Add embeds and appends records. Records whose id is already present are
// left unchanged.
func (b *Backend) Add(ctx context.Context, name string, records []domain.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := b.GetCollection(ctx, name); err != nil {
		return err
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Document
	}
	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding records: %w", err)
	}
	if len(vectors) != len(records) {
		return fmt.Errorf("embedder returned %d vectors for %d records", len(vectors), len(records))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// The collection may have been deleted while embedding.
	c, err := b.get(name)
	if err != nil {
		return err
	}
	for i, r := range records {
		if _, dup := c.index[r.ID]; dup {
			continue
		}
		c.index[r.ID] = len(c.entries)
		c.entries = append(c.entries, entry{record: r, embedding: vectors[i]})
	}
	return nil
}

// GetByIDs returns the records whose ids are in ids, in insertion order.
func (b *Backend) GetByIDs(_ context.Context, name string, ids []string) ([]domain.StoredRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, err := b.get(name)
	if err != nil {
		return nil, err
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []domain.StoredRecord{}
	for _, e := range c.entries {
		if _, ok := want[e.record.ID]; ok {
			out = append(out, e.record)
		}
	}
	return out, nil
}

// Query ranks the collection's records by cosine distance to text.
func (b *Backend) Query(ctx context.Context, name, text string, k int) ([]domain.QueryResult, error) {
	if _, err := b.GetCollection(ctx, name); err != nil {
		return nil, err
	}

	query, err := b.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	c, err := b.get(name)
	if err != nil {
		return nil, err
	}
	results := make([]domain.QueryResult, 0, len(c.entries))
	for _, e := range c.entries {
		results = append(results, domain.QueryResult{
			Collection: name,
			Document:   e.record.Document,
			Metadata:   e.record.Metadata,
			ID:         e.record.ID,
			Score:      vector.CosineDistance(query, e.embedding),
		})
	}
	return vector.TopK(results, k), nil
}

// Count returns the number of records in a collection.
func (b *Backend) Count(ctx context.Context, name string) (int, error) {
	c, err := b.GetCollection(ctx, name)
	if err != nil {
		return 0, err
	}
	return c.Count, nil
}

// Heartbeat always succeeds.
func (b *Backend) Heartbeat(_ context.Context) error {
	return nil
}

// Close drops all collections.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.collections = make(map[string]*collection)
	return nil
}

// get must be called with b.mu held.
func (b *Backend) get(name string) (*collection, error) {
	c, ok := b.collections[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	return c, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure CollectionStore implements the interface.
var _ driving.CollectionService = (*CollectionStore)(nil)

// CollectionStore wraps a collection backend with a process-wide cache of
// collection handles. Fan-out queries only reach cached collections.
type CollectionStore struct {
	backend driven.CollectionBackend

	mu    sync.RWMutex
	cache map[string]*domain.Collection
	order []string

	now func() time.Time
}

// NewCollectionStore creates a collection store over backend.
func NewCollectionStore(backend driven.CollectionBackend) *CollectionStore {
	return &CollectionStore{
		backend: backend,
		cache:   make(map[string]*domain.Collection),
		now:     time.Now,
	}
}

// Cached returns the names of cached collections in the order they were cached.
func (s *CollectionStore) Cached() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// CreateCollection returns the cached handle for name, creating the
// collection in the backend first if it is not cached. An existing backend
// collection is loaded rather than recreated.
func (s *CollectionStore) CreateCollection(ctx context.Context, name string) (*domain.Collection, error) {
	if c, ok := s.cached(name); ok {
		return c, nil
	}

	c, err := s.backend.CreateCollection(ctx, name, domain.CollectionDescription(name))
	if errors.Is(err, domain.ErrAlreadyExists) {
		c, err = s.backend.GetCollection(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}

	s.put(c)
	return c, nil
}

// CreateCollections creates every named collection. Failures are logged and
// do not stop the remaining names.
func (s *CollectionStore) CreateCollections(ctx context.Context, names []string) []domain.Outcome {
	outcomes := make([]domain.Outcome, 0, len(names))
	for _, name := range names {
		_, err := s.CreateCollection(ctx, name)
		if err != nil {
			logger.Error("Failed to create collection %s: %v", name, err)
		}
		outcomes = append(outcomes, domain.Outcome{Name: name, Err: err})
	}
	logger.Info("Collections created: %v", domain.Succeeded(outcomes))
	return outcomes
}

// CacheCollections loads existing backend collections into the cache.
func (s *CollectionStore) CacheCollections(ctx context.Context, names []string) error {
	var errs []error
	for _, name := range names {
		if _, err := s.GetCollection(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetCollection returns the cached handle for name, falling back to the
// backend on a miss. Returns domain.ErrCollectionNotFound if it does not exist.
func (s *CollectionStore) GetCollection(ctx context.Context, name string) (*domain.Collection, error) {
	if c, ok := s.cached(name); ok {
		return c, nil
	}

	c, err := s.backend.GetCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", name, err)
	}
	s.put(c)
	return c, nil
}

// AddDocument adds a single document. An empty id is replaced with a random UUID.
func (s *CollectionStore) AddDocument(
	ctx context.Context, name, document string, metadata domain.RecordMetadata, id string,
) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	record := domain.StoredRecord{ID: id, Document: document, Metadata: metadata}
	if err := s.AddDocuments(ctx, name, []domain.StoredRecord{record}); err != nil {
		return "", err
	}
	return id, nil
}

// AddDocuments appends records to the named collection.
func (s *CollectionStore) AddDocuments(ctx context.Context, name string, records []domain.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := s.GetCollection(ctx, name); err != nil {
		return err
	}
	if err := s.backend.Add(ctx, name, records); err != nil {
		return fmt.Errorf("add to collection %s: %w", name, err)
	}
	logger.Debug("Added %d records to %s", len(records), name)
	return nil
}

// QueryCollection returns up to k results from one collection.
func (s *CollectionStore) QueryCollection(
	ctx context.Context, name, text string, k int,
) ([]domain.QueryResult, error) {
	if _, err := s.GetCollection(ctx, name); err != nil {
		return nil, err
	}
	results, err := s.backend.Query(ctx, name, text, k)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", name, err)
	}
	return results, nil
}

// QueryAllCollections queries every cached collection for k results and
// returns the global top k ordered by ascending score. A failing collection
// is logged and skipped.
func (s *CollectionStore) QueryAllCollections(ctx context.Context, text string, k int) []domain.QueryResult {
	if k <= 0 {
		return []domain.QueryResult{}
	}
	names := s.Cached()

	perCollection := make([][]domain.QueryResult, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results, err := s.backend.Query(ctx, name, text, k)
			if err != nil {
				logger.Error("Query of collection %s failed: %v", name, err)
				return
			}
			perCollection[i] = results
		}(i, name)
	}
	wg.Wait()

	merged := make([]domain.QueryResult, 0, len(names)*k)
	for _, results := range perCollection {
		merged = append(merged, results...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score < merged[j].Score
	})
	if len(merged) > k {
		merged = merged[:k]
	}
	logger.Debug("Retrieved %d results from %d collections", len(merged), len(names))
	return merged
}

// QueryCollectionsByIDs returns the ids found in any cached collection.
func (s *CollectionStore) QueryCollectionsByIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var found []string
	for _, name := range s.Cached() {
		records, err := s.backend.GetByIDs(ctx, name, ids)
		if err != nil {
			return nil, fmt.Errorf("lookup ids in %s: %w", name, err)
		}
		for _, r := range records {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			found = append(found, r.ID)
		}
	}
	return found, nil
}

// DeleteCollection removes a collection from the cache and the backend.
func (s *CollectionStore) DeleteCollection(ctx context.Context, name string) domain.Outcome {
	s.drop(name)
	err := s.backend.DeleteCollection(ctx, name)
	if err != nil {
		logger.Warn("Failed to delete collection %s: %v", name, err)
	}
	return domain.Outcome{Name: name, Err: err}
}

// DeleteCollections removes every named collection. Failures are logged.
func (s *CollectionStore) DeleteCollections(ctx context.Context, names []string) []domain.Outcome {
	outcomes := make([]domain.Outcome, 0, len(names))
	for _, name := range names {
		outcomes = append(outcomes, s.DeleteCollection(ctx, name))
	}
	return outcomes
}

// Reset destroys and recreates the named collections.
func (s *CollectionStore) Reset(ctx context.Context, names []string) []domain.Outcome {
	logger.Section("Resetting Collections")
	for _, o := range s.DeleteCollections(ctx, names) {
		if o.OK() {
			logger.Debug("Deleted collection %s", o.Name)
		}
	}
	return s.CreateCollections(ctx, names)
}

// Open creates or loads every named collection without destroying data.
func (s *CollectionStore) Open(ctx context.Context, names []string) []domain.Outcome {
	return s.CreateCollections(ctx, names)
}

// ListCollections returns all backend collections with record counts.
func (s *CollectionStore) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	collections, err := s.backend.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

// Heartbeat checks the backend and returns its latency.
func (s *CollectionStore) Heartbeat(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.backend.Heartbeat(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (s *CollectionStore) cached(name string) (*domain.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cache[name]
	return c, ok
}

func (s *CollectionStore) put(c *domain.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[c.Name]; !ok {
		s.order = append(s.order, c.Name)
	}
	s.cache[c.Name] = c
}

func (s *CollectionStore) drop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[name]; !ok {
		return
	}
	delete(s.cache, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

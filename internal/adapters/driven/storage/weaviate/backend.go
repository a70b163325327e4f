// Package weaviate provides a collection backend that keeps each collection
// as a Weaviate class. Vectors are computed client-side by the configured
// embedding service, so classes are created without a vectorizer module.
package weaviate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Verify interface compliance.
var _ driven.CollectionBackend = (*Backend)(nil)

// batchSize is the number of objects sent per batch request.
const batchSize = 200

// Property names of every collection class.
const (
	propDocument       = "document"
	propRecordID       = "record_id"
	propSource         = "source"
	propClassification = "classification"
	propConfidence     = "confidence"
	propPageNumber     = "page_number"
)

// Config holds the Weaviate connection settings.
type Config struct {
	// URL is the endpoint, e.g. http://localhost:8080.
	URL string

	// APIKey authenticates against Weaviate Cloud; empty for anonymous access.
	APIKey string

	// Timeout bounds each request. Zero uses the client default.
	Timeout time.Duration
}

// Backend stores collections as Weaviate classes.
type Backend struct {
	client   *weaviate.Client
	embedder driven.EmbeddingService
}

// NewBackend connects to Weaviate. No request is made until first use.
func NewBackend(cfg Config, embedder driven.EmbeddingService) (*Backend, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service is required", domain.ErrInvalidInput)
	}
	scheme, host, err := splitURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	wcfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.Timeout > 0 {
		wcfg.ConnectionClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.APIKey != "" {
		wcfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
		wcfg.Headers = map[string]string{
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}

	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("creating weaviate client: %w", err)
	}

	return &Backend{client: client, embedder: embedder}, nil
}

// CreateCollection creates a class for the collection.
func (b *Backend) CreateCollection(ctx context.Context, name, description string) (*domain.Collection, error) {
	class, err := ClassName(name)
	if err != nil {
		return nil, err
	}

	exists, err := b.client.Schema().ClassExistenceChecker().WithClassName(class).Do(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	if exists {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrAlreadyExists)
	}

	if err := b.client.Schema().ClassCreator().WithClass(classDefinition(class, description)).Do(ctx); err != nil {
		return nil, fmt.Errorf("creating class %s: %w", class, err)
	}
	logger.Debug("weaviate: created class %s", class)

	return &domain.Collection{Name: name, Description: description, CreatedAt: time.Now().UTC()}, nil
}

// GetCollection returns a collection with its record count.
func (b *Backend) GetCollection(ctx context.Context, name string) (*domain.Collection, error) {
	class, err := ClassName(name)
	if err != nil {
		return nil, err
	}

	c, err := b.client.Schema().ClassGetter().WithClassName(class).Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
		}
		return nil, unavailable(err)
	}

	count, err := b.count(ctx, class)
	if err != nil {
		return nil, err
	}
	return &domain.Collection{Name: name, Description: c.Description, Count: count}, nil
}

// DeleteCollection drops the collection's class.
func (b *Backend) DeleteCollection(ctx context.Context, name string) error {
	if _, err := b.GetCollection(ctx, name); err != nil {
		return err
	}
	class, _ := ClassName(name)
	if err := b.client.Schema().ClassDeleter().WithClassName(class).Do(ctx); err != nil {
		return fmt.Errorf("deleting class %s: %w", class, err)
	}
	return nil
}

// ListCollections returns every class that carries the record schema.
func (b *Backend) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	dump, err := b.client.Schema().Getter().Do(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	var out []domain.Collection
	for _, c := range dump.Classes {
		if !isRecordClass(c) {
			continue
		}
		count, err := b.count(ctx, c.Class)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Collection{Name: c.Class, Description: c.Description, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Add embeds records and inserts those whose id is not yet present.
func (b *Backend) Add(ctx context.Context, name string, records []domain.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}

	existing, err := b.GetByIDs(ctx, name, recordIDs(records))
	if err != nil {
		return err
	}
	class, _ := ClassName(name)

	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[r.ID] = struct{}{}
	}
	fresh := make([]domain.StoredRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return nil
	}

	texts := make([]string, len(fresh))
	for i, r := range fresh {
		texts[i] = r.Document
	}
	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding records: %w", err)
	}
	if len(vectors) != len(fresh) {
		return fmt.Errorf("embedder returned %d vectors for %d records", len(vectors), len(fresh))
	}

	for start := 0; start < len(fresh); start += batchSize {
		end := min(start+batchSize, len(fresh))

		batcher := b.client.Batch().ObjectsBatcher()
		for i := start; i < end; i++ {
			batcher = batcher.WithObjects(toObject(class, fresh[i], vectors[i]))
		}

		resp, err := batcher.Do(ctx)
		if err != nil {
			return fmt.Errorf("inserting batch %d-%d: %w", start, end, err)
		}
		if err := batchError(resp); err != nil {
			return fmt.Errorf("inserting batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// GetByIDs returns the records whose ids are in ids.
func (b *Backend) GetByIDs(ctx context.Context, name string, ids []string) ([]domain.StoredRecord, error) {
	if _, err := b.GetCollection(ctx, name); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.StoredRecord{}, nil
	}
	class, _ := ClassName(name)

	where := filters.Where().
		WithPath([]string{propRecordID}).
		WithOperator(filters.ContainsAny).
		WithValueText(ids...)

	resp, err := b.client.GraphQL().Get().
		WithClassName(class).
		WithFields(recordFields(false)...).
		WithWhere(where).
		WithLimit(len(ids)).
		Do(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	if err := graphQLError(resp); err != nil {
		return nil, err
	}

	results := parseResults(resp.Data, class, name)
	out := make([]domain.StoredRecord, len(results))
	for i, r := range results {
		out[i] = domain.StoredRecord{ID: r.ID, Document: r.Document, Metadata: r.Metadata}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Query returns the k records nearest to text by cosine distance.
func (b *Backend) Query(ctx context.Context, name, text string, k int) ([]domain.QueryResult, error) {
	if _, err := b.GetCollection(ctx, name); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.QueryResult{}, nil
	}
	class, _ := ClassName(name)

	vec, err := b.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	resp, err := b.client.GraphQL().Get().
		WithClassName(class).
		WithFields(recordFields(true)...).
		WithNearVector(b.client.GraphQL().NearVectorArgBuilder().WithVector(vec)).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	if err := graphQLError(resp); err != nil {
		return nil, err
	}

	return parseResults(resp.Data, class, name), nil
}

// Count returns the number of records in a collection.
func (b *Backend) Count(ctx context.Context, name string) (int, error) {
	c, err := b.GetCollection(ctx, name)
	if err != nil {
		return 0, err
	}
	return c.Count, nil
}

// Heartbeat checks the Weaviate liveness endpoint.
func (b *Backend) Heartbeat(ctx context.Context) error {
	live, err := b.client.Misc().LiveChecker().Do(ctx)
	if err != nil {
		return unavailable(err)
	}
	if !live {
		return fmt.Errorf("%w: weaviate is not live", domain.ErrStoreUnavailable)
	}
	return nil
}

// Close is a no-op; the client holds no persistent connection.
func (b *Backend) Close() error {
	return nil
}

func (b *Backend) count(ctx context.Context, class string) (int, error) {
	resp, err := b.client.GraphQL().Aggregate().
		WithClassName(class).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, unavailable(err)
	}
	if err := graphQLError(resp); err != nil {
		return 0, err
	}
	return parseCount(resp.Data, class), nil
}

// ==================== Helper Functions ====================

// ClassName maps a collection name onto a Weaviate class name. Weaviate
// capitalises the first letter of every class and does not allow hyphens.
func ClassName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty collection name", domain.ErrInvalidInput)
	}
	if strings.Contains(name, "-") {
		return "", fmt.Errorf("%w: weaviate collection names cannot contain '-': %q", domain.ErrInvalidInput, name)
	}
	return strings.ToUpper(name[:1]) + name[1:], nil
}

// ObjectID derives a stable object UUID from a record id.
func ObjectID(recordID string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String())
}

func splitURL(raw string) (scheme, host string, err error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", "", fmt.Errorf("%w: weaviate URL is required", domain.ErrInvalidInput)
	}
	scheme = "http"
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme, raw = raw[:i], raw[i+3:]
	}
	if scheme != "http" && scheme != "https" {
		return "", "", fmt.Errorf("%w: unsupported weaviate scheme %q", domain.ErrInvalidInput, scheme)
	}
	return scheme, raw, nil
}

func classDefinition(class, description string) *models.Class {
	return &models.Class{
		Class:       class,
		Description: description,
		Vectorizer:  "none",
		VectorIndexConfig: map[string]any{
			"distance": "cosine",
		},
		VectorIndexType: "hnsw",
		Properties: []*models.Property{
			{Name: propDocument, DataType: []string{"text"}},
			{Name: propRecordID, DataType: []string{"text"}, Tokenization: "field"},
			{Name: propSource, DataType: []string{"text"}},
			{Name: propClassification, DataType: []string{"text"}},
			{Name: propConfidence, DataType: []string{"number"}},
			{Name: propPageNumber, DataType: []string{"int"}},
		},
	}
}

func isRecordClass(c *models.Class) bool {
	for _, p := range c.Properties {
		if p.Name == propRecordID {
			return true
		}
	}
	return false
}

func toObject(class string, r domain.StoredRecord, vec []float32) *models.Object {
	return &models.Object{
		Class: class,
		ID:    ObjectID(r.ID),
		Properties: map[string]any{
			propDocument:       r.Document,
			propRecordID:       r.ID,
			propSource:         r.Metadata.Source,
			propClassification: r.Metadata.Classification,
			propConfidence:     r.Metadata.Confidence,
			propPageNumber:     r.Metadata.PageNumber,
		},
		Vector: vec,
	}
}

func recordFields(withDistance bool) []graphql.Field {
	fields := []graphql.Field{
		{Name: propDocument},
		{Name: propRecordID},
		{Name: propSource},
		{Name: propClassification},
		{Name: propConfidence},
		{Name: propPageNumber},
	}
	if withDistance {
		fields = append(fields, graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}})
	}
	return fields
}

func recordIDs(records []domain.StoredRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// parseResults decodes a GraphQL Get response for one class. Results carry
// the collection name, which may differ from the class in its first letter.
func parseResults(data map[string]models.JSONObject, class, name string) []domain.QueryResult {
	get, ok := data["Get"].(map[string]any)
	if !ok {
		return []domain.QueryResult{}
	}
	items, ok := get[class].([]any)
	if !ok {
		return []domain.QueryResult{}
	}

	out := make([]domain.QueryResult, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := domain.QueryResult{Collection: name}
		r.ID, _ = obj[propRecordID].(string)
		r.Document, _ = obj[propDocument].(string)
		r.Metadata = domain.MetadataFromMap(obj)
		if additional, ok := obj["_additional"].(map[string]any); ok {
			r.Score, _ = additional["distance"].(float64)
		}
		out = append(out, r)
	}
	return out
}

// parseCount decodes a GraphQL Aggregate meta count for one class.
func parseCount(data map[string]models.JSONObject, class string) int {
	agg, ok := data["Aggregate"].(map[string]any)
	if !ok {
		return 0
	}
	items, ok := agg[class].([]any)
	if !ok || len(items) == 0 {
		return 0
	}
	first, _ := items[0].(map[string]any)
	meta, _ := first["meta"].(map[string]any)
	n, _ := meta["count"].(float64)
	return int(n)
}

func graphQLError(resp *models.GraphQLResponse) error {
	if resp == nil || len(resp.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("weaviate query failed: %s", strings.Join(msgs, "; "))
}

func batchError(resp []models.ObjectsGetResponse) error {
	for _, r := range resp {
		if r.Result == nil || r.Result.Errors == nil {
			continue
		}
		for _, e := range r.Result.Errors.Error {
			if e != nil {
				return errors.New(e.Message)
			}
		}
	}
	return nil
}

func isNotFound(err error) bool {
	var clientErr *fault.WeaviateClientError
	return errors.As(err, &clientErr) && clientErr.StatusCode == http.StatusNotFound
}

func unavailable(err error) error {
	var clientErr *fault.WeaviateClientError
	if errors.As(err, &clientErr) && clientErr.StatusCode != 0 {
		return fmt.Errorf("weaviate: %w", err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.CollectionBackend = (*Store)(nil)

// dbFile is the database file name inside the data directory.
const dbFile = "collections.db"

// Store is a SQLite collection backend.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sercha-rag/vector_store.
func NewStore(dataDir string, embedder driven.EmbeddingService) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service is required", domain.ErrInvalidInput)
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-rag", "vector_store")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Heartbeat pings the database.
func (s *Store) Heartbeat(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// CreateCollection inserts a new collection row.
func (s *Store) CreateCollection(ctx context.Context, name, description string) (*domain.Collection, error) {
	created := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, description, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, description, created)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrAlreadyExists)
	}

	return &domain.Collection{Name: name, Description: description, CreatedAt: created}, nil
}

// GetCollection returns a collection with its record count.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.name, c.description, c.created_at, COUNT(r.id)
		FROM collections c LEFT JOIN records r ON r.collection = c.name
		WHERE c.name = ?
		GROUP BY c.name
	`, name)

	c, err := scanCollection(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	return c, err
}

// DeleteCollection removes a collection and, by cascade, its records.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting collection %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", name, domain.ErrCollectionNotFound)
	}
	return nil
}

// ListCollections returns all collections sorted by name.
func (s *Store) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, c.description, c.created_at, COUNT(r.id)
		FROM collections c LEFT JOIN records r ON r.collection = c.name
		GROUP BY c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var out []domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Add embeds and inserts records in one transaction. Records whose id is
// already present in the collection are left unchanged.
func (s *Store) Add(ctx context.Context, collection string, records []domain.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return err
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Document
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding records: %w", err)
	}
	if len(vectors) != len(records) {
		return fmt.Errorf("embedder returned %d vectors for %d records", len(vectors), len(records))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, document, metadata, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		metaJSON, err := json.Marshal(r.Metadata.Map())
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, collection, r.ID, r.Document, string(metaJSON),
			float32SliceToBytes(vectors[i])); err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

// GetByIDs returns the records of the collection whose ids are in ids.
func (s *Store) GetByIDs(ctx context.Context, collection string, ids []string) ([]domain.StoredRecord, error) {
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.StoredRecord{}, nil
	}

	var out []domain.StoredRecord
	// Stay well under SQLite's bound-parameter limit.
	const batch = 500
	for start := 0; start < len(ids); start += batch {
		end := min(start+batch, len(ids))
		part := ids[start:end]

		args := make([]any, 0, len(part)+1)
		args = append(args, collection)
		for _, id := range part {
			args = append(args, id)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(part)), ",")

		rows, err := s.db.QueryContext(ctx, `
			SELECT id, document, metadata FROM records
			WHERE collection = ? AND id IN (`+placeholders+`)
			ORDER BY id
		`, args...)
		if err != nil {
			return nil, fmt.Errorf("querying records: %w", err)
		}

		for rows.Next() {
			var rec domain.StoredRecord
			var metaJSON string
			if err := rows.Scan(&rec.ID, &rec.Document, &metaJSON); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning record: %w", err)
			}
			if rec.Metadata, err = decodeMetadata(metaJSON); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, rec)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Query ranks every record of the collection by cosine distance to text.
func (s *Store) Query(ctx context.Context, collection, text string, k int) ([]domain.QueryResult, error) {
	if _, err := s.GetCollection(ctx, collection); err != nil {
		return nil, err
	}

	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, document, metadata, embedding FROM records WHERE collection = ?", collection)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var results []domain.QueryResult
	for rows.Next() {
		var (
			r        domain.QueryResult
			metaJSON string
			blob     []byte
		)
		if err := rows.Scan(&r.ID, &r.Document, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if r.Metadata, err = decodeMetadata(metaJSON); err != nil {
			return nil, err
		}
		r.Collection = collection
		r.Score = vector.CosineDistance(query, bytesToFloat32Slice(blob))
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vector.TopK(results, k), nil
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	c, err := s.GetCollection(ctx, collection)
	if err != nil {
		return 0, err
	}
	return c.Count, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_collections.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Helper Functions ====================

func scanCollection(scan func(dest ...any) error) (*domain.Collection, error) {
	var c domain.Collection
	var created sql.NullTime
	if err := scan(&c.Name, &c.Description, &created, &c.Count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning collection: %w", err)
	}
	if created.Valid {
		c.CreatedAt = created.Time
	}
	return &c, nil
}

func decodeMetadata(raw string) (domain.RecordMetadata, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return domain.RecordMetadata{}, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return domain.MetadataFromMap(m), nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

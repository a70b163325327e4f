// Package sqlite provides a SQLite-backed collection backend.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each collection is a row in the
// collections table; its records live in the records table with their metadata
// as JSON and their embedding as a little-endian float32 blob.
//
// # Search
//
// Queries embed the query text and rank every record of the collection by
// cosine distance. This brute-force scan suits the document sizes a single
// user ingests; the weaviate backend covers larger corpora.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-rag/vector_store/collections.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite

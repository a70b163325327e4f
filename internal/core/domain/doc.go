// Package domain defines the core business entities for sercha-rag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: Text extracted from one page of a source document
//   - Chunk: A bounded span of page text, identified by its content hash
//   - CategorySet: The closed set of classification labels
//   - StoredRecord: A chunk persisted inside a category collection
//   - QueryResult: A ranked similarity hit from one collection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor or provider handles the requested type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoContent indicates a source document produced no extractable text.
	ErrNoContent = errors.New("no extractable content")

	// Collection Errors.

	// ErrCollectionNotFound indicates the named collection does not exist in the backing store.
	// Inserting into such a collection means the category set and the created
	// collections have drifted apart.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrUnknownCategory indicates a label outside the configured category set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrStoreUnavailable indicates the collection backend could not be reached.
	ErrStoreUnavailable = errors.New("collection store unavailable")

	// Model Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Collections cannot be written or queried without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrClassifierUnavailable indicates the zero-shot classifier is not configured.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrSummarizerUnavailable indicates summarisation was requested without a summarizer.
	ErrSummarizerUnavailable = errors.New("summarizer unavailable")

	// ErrRateLimited indicates a remote inference API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

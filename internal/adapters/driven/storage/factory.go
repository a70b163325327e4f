// Package storage builds the collection backend selected in settings.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/weaviate"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// WeaviateAPIKeyEnv supplies the Weaviate API key when settings leave it empty.
const WeaviateAPIKeyEnv = "WEAVIATE_API_KEY"

// NewBackend opens the configured backend. homeDir is used for the default
// sqlite location when settings.Path is empty.
func NewBackend(settings domain.StoreSettings, homeDir string, embedder driven.EmbeddingService) (driven.CollectionBackend, error) {
	backend := settings.Backend
	if backend == "" {
		backend = domain.StoreSQLite
	}

	switch backend {
	case domain.StoreSQLite:
		path := settings.Path
		if path == "" && homeDir != "" {
			path = filepath.Join(homeDir, "vector_store")
		}
		return sqlite.NewStore(path, embedder)

	case domain.StoreMemory:
		return memory.NewBackend(embedder), nil

	case domain.StoreWeaviate:
		key := settings.WeaviateAPIKey
		if key == "" {
			key = os.Getenv(WeaviateAPIKeyEnv)
		}
		return weaviate.NewBackend(weaviate.Config{URL: settings.WeaviateURL, APIKey: key}, embedder)

	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, backend)
	}
}

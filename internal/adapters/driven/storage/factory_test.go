package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/weaviate"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestNewBackend(t *testing.T) {
	embedder := local.NewEmbeddingService(0)
	home := t.TempDir()

	b, err := NewBackend(domain.StoreSettings{}, home, embedder)
	require.NoError(t, err)
	require.IsType(t, &sqlite.Store{}, b)
	assert.Equal(t, filepath.Join(home, "vector_store", "collections.db"), b.(*sqlite.Store).Path())
	require.NoError(t, b.Close())

	b, err = NewBackend(domain.StoreSettings{Backend: domain.StoreMemory}, home, embedder)
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)

	b, err = NewBackend(domain.StoreSettings{Backend: domain.StoreWeaviate, WeaviateURL: "http://localhost:8080"}, home, embedder)
	require.NoError(t, err)
	assert.IsType(t, &weaviate.Backend{}, b)

	_, err = NewBackend(domain.StoreSettings{Backend: "redis"}, home, embedder)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

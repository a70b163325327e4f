package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestExtractCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid collection URI",
			uri:      "sercha-rag://collections/Requirements",
			expected: "Requirements",
		},
		{
			name:     "invalid prefix",
			uri:      "file://collections/Requirements",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "sercha-rag://collections/Requirements/records",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCollectionName(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleCollectionsResource(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("returns collections", func(t *testing.T) {
		collections := &mockCollectionService{collections: []domain.Collection{
			{Name: "Requirements", Description: domain.CollectionDescription("Requirements"), Count: 12, CreatedAt: created},
			{Name: "Scope_of_Work", Count: 0, CreatedAt: created},
		}}
		server := newTestServer(t, &Ports{Collections: collections})

		result, err := server.handleCollectionsResource(ctx, makeReadResourceRequest("sercha-rag://collections"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"name": "Requirements"`)
		assert.Contains(t, result.Contents[0].Text, `"count": 12`)
		assert.Contains(t, result.Contents[0].Text, "Scope_of_Work")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Collections: &mockCollectionService{err: errors.New("database error")}})

		_, err := server.handleCollectionsResource(ctx, makeReadResourceRequest("sercha-rag://collections"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing collections")
	})
}

func TestServer_handleCollectionResource(t *testing.T) {
	ctx := context.Background()
	collections := &mockCollectionService{collections: []domain.Collection{
		{Name: "Requirements", Count: 3},
	}}
	server := newTestServer(t, &Ports{Collections: collections})

	t.Run("returns one collection", func(t *testing.T) {
		result, err := server.handleCollectionResource(ctx, makeReadResourceRequest("sercha-rag://collections/Requirements"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"count": 3`)
	})

	t.Run("unknown collection is not found", func(t *testing.T) {
		_, err := server.handleCollectionResource(ctx, makeReadResourceRequest("sercha-rag://collections/Nope"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleCollectionResource(ctx, makeReadResourceRequest("sercha-rag://other"))
		assert.Error(t, err)
	})
}

package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestCollectionsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range collectionsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "reset", "heartbeat", "query"}, names)
}

func TestCollectionsListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"collections", "list"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "No collections.")
}

func TestCollectionsListCmd_ShowsCounts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	testSvc.collections.Open(t.Context(), []string{"Cooking"})
	_, err := testSvc.collections.AddDocument(t.Context(), "Cooking", "Knead the dough.", domain.RecordMetadata{}, "")
	require.NoError(t, err)

	out, err := execute([]string{"collections", "list"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Cooking")
	assert.Contains(t, out, "1")
}

func TestCollectionsResetCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"collections", "reset"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset collections: Cooking, Astronomy")
}

func TestCollectionsHeartbeatCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"collections", "heartbeat"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Collection store is up")
}

func TestCollectionsQueryCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	testSvc.collections.Open(t.Context(), []string{"Cooking", "Astronomy"})
	_, err := testSvc.collections.AddDocument(t.Context(), "Cooking", "Knead the bread dough for ten minutes.",
		domain.RecordMetadata{Source: "bread.pdf", Classification: "Cooking", PageNumber: 4}, "bread")
	require.NoError(t, err)
	_, err = testSvc.collections.AddDocument(t.Context(), "Astronomy", "Jupiter is the largest planet.",
		domain.RecordMetadata{Source: "sky.pdf", Classification: "Astronomy", PageNumber: 1}, "sky")
	require.NoError(t, err)

	out, err := execute([]string{"collections", "query", "-n", "1", "bread dough"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Cooking - bread.pdf p.4")
	assert.NotContains(t, out, "[2]")
}

func TestCollectionsQueryCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	testSvc.collections.Open(t.Context(), []string{"Cooking"})
	_, err := testSvc.collections.AddDocument(t.Context(), "Cooking", "Knead the bread dough.",
		domain.RecordMetadata{Source: "bread.pdf", Classification: "Cooking", PageNumber: 4}, "bread")
	require.NoError(t, err)

	out, err := execute([]string{"collections", "query", "--json", "bread"}, "")
	require.NoError(t, err)

	var got []resultJSON
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "bread", got[0].ID)
}

func TestCollectionsQueryCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"collections", "query", "anything"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n b\t\tc", 10))
	assert.Equal(t, "abc...", snippet("abcdef", 3))
	assert.Equal(t, "héllo", snippet("héllo", 5))
}

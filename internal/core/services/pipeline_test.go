package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier/embedding"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

func TestPipeline_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	embedder := local.NewEmbeddingService(0)
	labels := domain.MustCategorySet("Cooking", "Astronomy")

	pages := []domain.Page{
		{Number: 1, Text: "Cooking pasta needs salted boiling water and cooking time.\n\n" +
			"Astronomy uses telescopes to observe distant stars and galaxies."},
		{Number: 2, Text: "Cooking a tomato sauce for pasta takes patience."},
	}

	open := func() (*sqlite.Store, *CollectionStore, *IngestService) {
		backend, err := sqlite.NewStore(dir, embedder)
		require.NoError(t, err)
		store := NewCollectionStore(backend)
		require.Len(t, domain.Succeeded(store.Open(ctx, labels.Labels())), 2)
		classifier := embedding.New(embedder, labels, domain.DefaultHypothesisTemplate)
		return backend, store, NewIngestService(store, classifier, nil, testPipelineBuilder)
	}

	backend, store, ingest := open()
	report, err := ingest.IngestPages(ctx, pages, "notes.pdf", driving.IngestOptions{ChunkSize: 80})
	require.NoError(t, err)
	assert.Equal(t, 3, report.New)
	assert.Equal(t, map[string]int{"Cooking": 2, "Astronomy": 1}, report.PerCollection)

	llm := &mockLLM{reply: "<think>checking</think>Boil it in salted water."}
	answers := NewAnswerService(store, llm, driven.ChatOptions{Temperature: domain.DefaultLLMTemperature})
	answer, err := answers.Ask(ctx, "How should pasta be boiled?", 2)
	require.NoError(t, err)
	assert.Equal(t, "Boil it in salted water.", answer.Text)
	require.Len(t, answer.Context, 2)
	assert.Equal(t, "Cooking", answer.Context[0].Collection)
	assert.Contains(t, answer.Context[0].Document, "pasta")
	assert.LessOrEqual(t, answer.Context[0].Score, answer.Context[1].Score)
	assert.Contains(t, llm.history[0][0].Content, "[Category: Cooking - Source: notes.pdf - Page: ")
	require.NoError(t, backend.Close())

	// Reopening keeps the records, so the same pages add nothing.
	backend, _, ingest = open()
	defer backend.Close()
	again, err := ingest.IngestPages(ctx, pages, "notes.pdf", driving.IngestOptions{ChunkSize: 80})
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, 3, again.Existing)
}

func TestPipeline_SQLiteRetrievesPageTwoPhrase(t *testing.T) {
	ctx := context.Background()
	embedder := local.NewEmbeddingService(0)
	labels := domain.MustCategorySet(domain.DefaultCategories()...)

	backend, err := sqlite.NewStore(t.TempDir(), embedder)
	require.NoError(t, err)
	defer backend.Close()
	store := NewCollectionStore(backend)
	require.Len(t, domain.Succeeded(store.Reset(ctx, labels.Labels())), labels.Len())

	classifier := embedding.New(embedder, labels, domain.DefaultHypothesisTemplate)
	ingest := NewIngestService(store, classifier, nil, testPipelineBuilder)

	pages := []domain.Page{
		{Number: 1, Text: "The contractor shall install forty rooftop solar panels on the warehouse roof " +
			"and connect them to the existing inverter cabinet before the summer season begins.\n\n" +
			"Scaffolding, crane hire and waste removal are included in the quoted price, while " +
			"structural surveys of the roof trusses remain the responsibility of the building owner."},
		{Number: 2, Text: "The reporting platform must deliver nightly batch exports over secure FTP to the " +
			"finance department, with every file encrypted and checksummed before transfer begins.\n\n" +
			"Failed transfers are retried three times at fifteen minute intervals and an alert email " +
			"reaches the operations mailbox whenever the final retry also fails to complete."},
	}
	for _, p := range pages {
		require.GreaterOrEqual(t, len(p.Text), 300)
	}

	report, err := ingest.IngestPages(ctx, pages, "tender.pdf", driving.IngestOptions{ChunkSize: domain.DefaultChunkSize})
	require.NoError(t, err)
	require.False(t, report.Skipped)
	assert.Equal(t, 2, report.Pages)
	assert.Positive(t, report.New)

	stored := store.QueryAllCollections(ctx, "contractor reporting", report.New)
	require.Len(t, stored, report.New)
	perPage := map[int]int{}
	for _, r := range stored {
		perPage[r.Metadata.PageNumber]++
	}
	assert.Positive(t, perPage[1])
	assert.Positive(t, perPage[2])

	results := store.QueryAllCollections(ctx, "nightly batch exports over secure FTP", 3)
	require.NotEmpty(t, results)
	assert.Equal(t, 2, results[0].Metadata.PageNumber)
	assert.Equal(t, "tender.pdf", results[0].Metadata.Source)
	assert.Contains(t, results[0].Document, "nightly batch exports over secure FTP")
}

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute([]string{"ingest"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_IngestsEveryFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"ingest", "a.pdf", "b.txt"}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "b.txt"}, testSvc.ingest.paths)
	assert.Contains(t, out, "a.pdf: 2 pages, 3 chunks, 1 already stored, 2 new")
	assert.Contains(t, out, "  Cooking: 2")
	assert.ElementsMatch(t, []string{"Cooking", "Astronomy"}, testSvc.collections.Cached())
}

func TestIngestCmd_Flags(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"ingest", "--source", "manual", "--summarize", "--chunk-size", "120", "a.pdf"}, "")
	require.NoError(t, err)

	require.Len(t, testSvc.ingest.opts, 1)
	assert.True(t, testSvc.ingest.opts[0].Summarize)
	assert.Equal(t, 120, testSvc.ingest.opts[0].ChunkSize)
	assert.Contains(t, out, "manual:")
}

func TestIngestCmd_SummarizeDefaultsToSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	pipelineServices.Summarize = true

	_, err := execute([]string{"ingest", "a.pdf"}, "")
	require.NoError(t, err)
	assert.True(t, testSvc.ingest.opts[0].Summarize)

	_, err = execute([]string{"ingest", "--summarize=false", "b.pdf"}, "")
	require.NoError(t, err)
	assert.False(t, testSvc.ingest.opts[1].Summarize)
}

func TestIngestCmd_ReportsFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testSvc.ingest.err = errMock

	out, err := execute([]string{"ingest", "a.pdf", "b.pdf"}, "")
	require.Error(t, err)

	assert.ErrorIs(t, err, errMock)
	assert.Len(t, testSvc.ingest.paths, 2)
	assert.Contains(t, out, "Failed to ingest a.pdf")
	assert.Contains(t, out, "Failed to ingest b.pdf")
}

func TestPrintReport_Skipped(t *testing.T) {
	buf := new(bytes.Buffer)
	printReport(buf, &domain.IngestReport{Source: "doc.pdf", Skipped: true, Reason: "no extractable text"})
	assert.Equal(t, "doc.pdf: nothing stored (no extractable text)\n", buf.String())
}

func TestPrintReport_SortsCollections(t *testing.T) {
	buf := new(bytes.Buffer)
	printReport(buf, &domain.IngestReport{
		Source:        "doc.pdf",
		New:           3,
		PerCollection: map[string]int{"Zoology": 1, "Astronomy": 2},
	})
	out := buf.String()
	assert.Less(t, strings.Index(out, "Astronomy"), strings.Index(out, "Zoology"))
}

func TestRunCmd_IngestsThenChats(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"run", "manual.pdf"}, "How long do I knead?\nexit\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"manual.pdf"}, testSvc.ingest.paths)
	assert.Contains(t, out, "Parsing document...")
	assert.Contains(t, out, chatBanner)
	assert.Contains(t, out, "Answer to: How long do I knead?")
}

func TestRunCmd_ResetsByDefault(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	testSvc.collections.Open(t.Context(), []string{"Cooking"})
	_, err := testSvc.collections.AddDocument(t.Context(), "Cooking", "old text", domain.RecordMetadata{}, "old")
	require.NoError(t, err)

	_, err = execute([]string{"run", "manual.pdf"}, "exit\n")
	require.NoError(t, err)

	found, err := testSvc.collections.QueryCollectionsByIDs(t.Context(), []string{"old"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRunCmd_Keep(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	testSvc.collections.Open(t.Context(), []string{"Cooking"})
	_, err := testSvc.collections.AddDocument(t.Context(), "Cooking", "old text", domain.RecordMetadata{}, "old")
	require.NoError(t, err)

	_, err = execute([]string{"run", "--keep", "manual.pdf"}, "exit\n")
	require.NoError(t, err)

	found, err := testSvc.collections.QueryCollectionsByIDs(t.Context(), []string{"old"})
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, found)
}

func TestRunCmd_IngestError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testSvc.ingest.err = errMock

	_, err := execute([]string{"run", "manual.pdf"}, "")
	require.Error(t, err)
	assert.Empty(t, testSvc.answer.questions)
}

func TestWatchCmd_IngestsExistingFirst(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	out, err := execute([]string{"watch", dir}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{dir}, testSvc.watch.dirs)
	assert.Contains(t, out, "Watching "+dir)
}

func TestWatchCmd_IngestExistingError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testSvc.watch.err = domain.ErrInvalidInput

	_, err := execute([]string{"watch", "missing"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   *domain.Answer
	err      error
	question string
	k        int
}

func (m *mockAnswerService) Ask(_ context.Context, question string, k int) (*domain.Answer, error) {
	m.question = question
	m.k = k
	return m.answer, m.err
}

// mockCollectionService is a mock implementation of driving.CollectionService.
type mockCollectionService struct {
	collections []domain.Collection
	results     []domain.QueryResult
	err         error
	k           int
}

func (m *mockCollectionService) ListCollections(_ context.Context) ([]domain.Collection, error) {
	return m.collections, m.err
}

func (m *mockCollectionService) Open(_ context.Context, names []string) []domain.Outcome {
	return outcomes(names)
}

func (m *mockCollectionService) Reset(_ context.Context, names []string) []domain.Outcome {
	return outcomes(names)
}

func (m *mockCollectionService) QueryAllCollections(_ context.Context, _ string, k int) []domain.QueryResult {
	m.k = k
	return m.results
}

func (m *mockCollectionService) Heartbeat(_ context.Context) (time.Duration, error) {
	return time.Millisecond, m.err
}

func outcomes(names []string) []domain.Outcome {
	out := make([]domain.Outcome, len(names))
	for i, n := range names {
		out[i] = domain.Outcome{Name: n}
	}
	return out
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report *domain.IngestReport
	err    error
	path   string
	opts   driving.IngestOptions
}

func (m *mockIngestService) Ingest(
	_ context.Context, path, _ string, opts driving.IngestOptions,
) (*domain.IngestReport, error) {
	m.path = path
	m.opts = opts
	return m.report, m.err
}

func (m *mockIngestService) IngestPages(
	_ context.Context, _ []domain.Page, _ string, _ driving.IngestOptions,
) (*domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) Supports(_ string) bool {
	return true
}

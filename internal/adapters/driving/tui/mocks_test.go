package tui

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// MockAnswerService answers every question with a fixed prefix.
type MockAnswerService struct {
	mu        sync.Mutex
	Questions []string
	K         []int
	Err       error
}

func (m *MockAnswerService) Ask(_ context.Context, question string, k int) (*domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Questions = append(m.Questions, question)
	m.K = append(m.K, k)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.Answer{Text: "Answer: " + question, Elapsed: 1200 * time.Millisecond}, nil
}

// MockCollectionService lists a fixed set of collections.
type MockCollectionService struct {
	Collections []domain.Collection
	Err         error
}

func (m *MockCollectionService) ListCollections(context.Context) ([]domain.Collection, error) {
	return m.Collections, m.Err
}

func (m *MockCollectionService) Open(context.Context, []string) []domain.Outcome { return nil }

func (m *MockCollectionService) Reset(context.Context, []string) []domain.Outcome { return nil }

func (m *MockCollectionService) QueryAllCollections(context.Context, string, int) []domain.QueryResult {
	return nil
}

func (m *MockCollectionService) Heartbeat(context.Context) (time.Duration, error) { return 0, nil }

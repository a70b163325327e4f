package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   *domain.Page
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, page domain.Page, chunks []domain.Chunk) ([]domain.Chunk, error) {
	m.seen = &page
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

var testPage = domain.Page{Number: 2, Text: "test content"}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), testPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_MultipleProcessors(t *testing.T) {
	first := &mockProcessor{name: "first", chunks: []domain.Chunk{{ID: "c1", Text: "first"}}}
	second := &mockProcessor{name: "second", chunks: []domain.Chunk{
		{ID: "c1", Text: "modified"},
		{ID: "c2", Text: "added"},
	}}

	chunks, err := NewPipeline(first, second).Process(context.Background(), testPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
	if second.seen == nil || second.seen.Number != testPage.Number {
		t.Error("expected every processor to receive the page")
	}
}

func TestPipeline_Process_PassthroughProcessor(t *testing.T) {
	initial := []domain.Chunk{{ID: "c1", Text: "test"}}

	p := NewPipeline(
		&mockProcessor{name: "chunker", chunks: initial},
		&mockProcessor{name: "passthrough"}, // Returns received chunks unchanged
	)

	chunks, err := p.Process(context.Background(), testPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "c1" {
		t.Errorf("expected passthrough of initial chunks, got %v", chunks)
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")

	p := NewPipeline(&mockProcessor{name: "failing", err: expectedErr})

	_, err := p.Process(context.Background(), testPage)
	if err == nil {
		t.Fatal("expected error from failing processor")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error, got: %v", err)
	}
}

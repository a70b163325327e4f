package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

type stubLLM struct {
	maxLengths []int
	err        error
}

func (s *stubLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "", nil
}
func (s *stubLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "", nil
}
func (s *stubLLM) Summarise(_ context.Context, content string, maxLength int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.maxLengths = append(s.maxLengths, maxLength)
	return "<think>plan</think> sum:" + content, nil
}
func (s *stubLLM) ModelName() string          { return "stub" }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error               { return nil }

func TestSummarizeBatch(t *testing.T) {
	llm := &stubLLM{}
	out, err := New(llm).SummarizeBatch(context.Background(), []string{"a", "b"}, driven.SummaryOptions{MaxLength: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"sum:a", "sum:b"}, out)
	assert.Equal(t, []int{600, 600}, llm.maxLengths)
}

func TestSummarizeBatch_Error(t *testing.T) {
	_, err := New(&stubLLM{err: errors.New("down")}).SummarizeBatch(context.Background(), []string{"a"}, driven.SummaryOptions{})
	assert.ErrorIs(t, err, domain.ErrSummarizerUnavailable)
}

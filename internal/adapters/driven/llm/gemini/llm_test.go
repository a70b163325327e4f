package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), Config{APIKeys: []string{" ", ""}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSplitMessages(t *testing.T) {
	system, history, last, err := splitMessages([]driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "rules"},
		{Role: driven.RoleUser, Content: "hi"},
		{Role: driven.RoleAssistant, Content: "hello"},
		{Role: driven.RoleUser, Content: "question"},
	})
	require.NoError(t, err)

	assert.Equal(t, "rules", system)
	assert.Equal(t, "question", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("hello"), history[1].Parts[0])
}

func TestSplitMessages_Empty(t *testing.T) {
	_, _, _, err := splitMessages([]driven.ChatMessage{{Role: driven.RoleSystem, Content: "x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResponseText(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	text, err := responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b")}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ab", text)
}

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

type stubPrompts struct{ text string }

func (s stubPrompts) Load(string) (string, error) { return s.text, nil }
func (s stubPrompts) Reload()                     {}

func TestNewLLMService_Defaults(t *testing.T) {
	s := NewLLMService(LLMConfig{})
	assert.Equal(t, "qwen3:8b", s.ModelName())
	assert.Equal(t, DefaultBaseURL, s.baseURL)
}

func TestChat_SendsHistoryAndOptions(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "<think>hmm</think>Paris"},
			Done:    true,
		})
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "m"})
	reply, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleUser, Content: "capital of France?"},
	}, driven.ChatOptions{Temperature: 0.3, Seed: 99999})
	require.NoError(t, err)

	// Adapters return raw model output.
	assert.Equal(t, "<think>hmm</think>Paris", reply)
	assert.Equal(t, "m", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	require.NotNil(t, got.Options)
	require.NotNil(t, got.Options.Temperature)
	assert.InDelta(t, 0.3, *got.Options.Temperature, 1e-9)
	assert.Equal(t, 99999, got.Options.Seed)
	assert.False(t, got.Stream)
}

func TestChat_ZeroTemperatureIsSent(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)

	opts, ok := raw["options"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, opts, "temperature")
}

func TestChat_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model 'x' not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Chat(context.Background(), nil, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestChat_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: url}).Chat(context.Background(), nil, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestSummarise_UsesPromptStore(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  short summary \n", Done: true})
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})
	s.SetPromptStore(stubPrompts{text: "LEN=%d TEXT=%s"})

	out, err := s.Summarise(context.Background(), "long text", 120)
	require.NoError(t, err)
	assert.Equal(t, "short summary", out)
	assert.Equal(t, "LEN=120 TEXT=long text", got.Prompt)
	require.NotNil(t, got.Options)
	assert.Equal(t, 30, got.Options.NumPredict)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	assert.NoError(t, NewLLMService(LLMConfig{BaseURL: server.URL}).Ping(context.Background()))
}

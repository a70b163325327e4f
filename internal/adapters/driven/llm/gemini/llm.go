// Package gemini provides an LLM service adapter using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is the default Gemini model.
const DefaultModel = "gemini-1.5-flash"

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKeys are tried in order; on a failed request the service rotates
	// to the next key and retries once. At least one is required.
	APIKeys []string

	// Model is the model name (default: gemini-1.5-flash).
	Model string
}

// LLMService provides LLM operations using github.com/google/generative-ai-go.
type LLMService struct {
	mu          sync.Mutex
	keys        []string
	current     int
	client      *genai.Client
	model       string
	promptStore driven.PromptStore
}

// NewLLMService creates a Gemini client for the first API key.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	keys := make([]string, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: Gemini API key is required", domain.ErrInvalidInput)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	s := &LLMService{keys: keys, model: cfg.Model}
	client, err := genai.NewClient(ctx, option.WithAPIKey(keys[0]))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	s.client = client
	return s, nil
}

// rotate closes the current client and opens one for the next key.
func (s *LLMService) rotate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.keys) < 2 {
		return errors.New("gemini: no alternative API key")
	}
	s.current = (s.current + 1) % len(s.keys)
	_ = s.client.Close()

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.keys[s.current]))
	if err != nil {
		return fmt.Errorf("gemini: create client: %w", err)
	}
	s.client = client
	logger.Warn("gemini: rotated to API key %d of %d", s.current+1, len(s.keys))
	return nil
}

func (s *LLMService) generativeModel() *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.GenerativeModel(s.model)
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return s.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
}

// Chat sends history plus the final message through a chat session.
// System messages become the model's system instruction. Gemini does not
// accept a seed, so Seed is ignored.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	system, history, last, err := splitMessages(messages)
	if err != nil {
		return "", err
	}

	send := func() (*genai.GenerateContentResponse, error) {
		model := s.generativeModel()
		model.SetTemperature(float32(opts.Temperature))
		if opts.MaxTokens > 0 {
			model.SetMaxOutputTokens(int32(opts.MaxTokens))
		}
		if system != "" {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
		}
		cs := model.StartChat()
		cs.History = history
		return cs.SendMessage(ctx, genai.Text(last))
	}

	resp, err := send()
	if err != nil {
		if rerr := s.rotate(ctx); rerr != nil {
			return "", fmt.Errorf("%w: gemini: %w", domain.ErrLLMUnavailable, err)
		}
		if resp, err = send(); err != nil {
			return "", fmt.Errorf("%w: gemini: %w", domain.ErrLLMUnavailable, err)
		}
	}

	return responseText(resp)
}

// splitMessages separates system text, prior turns and the final user text.
func splitMessages(messages []driven.ChatMessage) (string, []*genai.Content, string, error) {
	var system []string
	var turns []driven.ChatMessage
	for _, m := range messages {
		if m.Role == driven.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 {
		return "", nil, "", fmt.Errorf("%w: gemini chat needs at least one message", domain.ErrInvalidInput)
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == driven.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(m.Content)},
			Role:  role,
		})
	}

	return strings.Join(system, "\n\n"), history, turns[len(turns)-1].Content, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no response generated")
	}

	var b strings.Builder
	cand := resp.Candidates[0]
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String(), nil
}

// defaultSummarisePrompt is the fallback prompt when no PromptStore is configured.
const defaultSummarisePrompt = `Summarise the following content in %d characters or less.
Be concise and capture the key points.

Content:
%s

Summary:`

// Summarise creates a summary of content.
func (s *LLMService) Summarise(ctx context.Context, content string, maxLength int) (string, error) {
	promptTemplate := defaultSummarisePrompt
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptSummarise); err == nil {
			promptTemplate = p
		}
	}

	result, err := s.Generate(ctx, fmt.Sprintf(promptTemplate, maxLength, content), driven.GenerateOptions{
		MaxTokens:   max(maxLength/4, 16),
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(result), nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists available models to validate the key.
func (s *LLMService) Ping(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	it := client.ListModels(ctx)
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *LLMService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Close()
}

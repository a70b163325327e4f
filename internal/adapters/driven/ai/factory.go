// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	embedclassifier "github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier/embedding"
	hfclassifier "github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier/huggingface"
	llmclassifier "github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier/llm"
	localembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/openai"
	hf "github.com/custodia-labs/sercha-rag/internal/adapters/driven/huggingface"
	anthropicllm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/openai"
	freqsummarizer "github.com/custodia-labs/sercha-rag/internal/adapters/driven/summarizer/frequency"
	hfsummarizer "github.com/custodia-labs/sercha-rag/internal/adapters/driven/summarizer/huggingface"
	llmsummarizer "github.com/custodia-labs/sercha-rag/internal/adapters/driven/summarizer/llm"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// settingsHint is appended to configuration errors.
const settingsHint = "Run 'sercha-rag settings show' to review"

// InitResult contains the AI services built from settings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // Nil when no LLM is reachable.
	Classifier       driven.Classifier
	Summarizer       driven.Summarizer  // Nil when the summarizer could not be built.
	PromptStore      driven.PromptStore // User-customisable prompt templates.
	Warnings         []string           // Non-fatal issues.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds every AI service from settings. The embedding service
// and the classifier are required; a missing LLM or summarizer only adds a
// warning, since ingestion can run without them.
func Initialise(settings *domain.AppSettings, prompts driven.PromptStore) (*InitResult, error) {
	labels, err := domain.NewCategorySet(settings.Categories)
	if err != nil {
		return nil, err
	}

	result := &InitResult{PromptStore: prompts}

	result.EmbeddingService, err = CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if result.EmbeddingService == nil {
		return nil, fmt.Errorf("%w: provider %q is not configured. %s",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider, settingsHint)
	}

	result.LLMService, err = CreateLLMService(&settings.LLM, prompts)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("LLM unavailable: %v", err))
	case result.LLMService == nil:
		result.Warnings = append(result.Warnings, "LLM not configured, questions cannot be answered")
	}

	result.Classifier, err = CreateClassifier(&settings.Classifier, labels, result.EmbeddingService, result.LLMService, prompts)
	if err != nil {
		result.Close()
		return nil, err
	}

	result.Summarizer, err = CreateSummarizer(&settings.Summarizer, result.LLMService)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("summarizer unavailable: %v", err))
	}

	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(settings *domain.LLMSettings, prompts driven.PromptStore) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings, prompts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, settingsHint)
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, settingsHint)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(settings, nil)
	if svc != nil {
		svc.Close()
	}
	return err
}

// CreateEmbeddingService creates the embedding service selected by settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderLocal:
		return localembed.NewEmbeddingService(domain.EmbeddingDimensions()[localembed.DefaultModel]), nil

	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("%w: %s does not provide embeddings, use local, ollama or openai",
			domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the LLM service selected by settings.
// Returns nil if the provider is not configured. When prompts is non-nil it
// is handed to services that support customisable prompts.
func CreateLLMService(settings *domain.LLMSettings, prompts driven.PromptStore) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.LLMService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		svc, err = anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		svc, err = geminillm.NewLLMService(context.Background(), geminillm.Config{
			APIKeys: splitKeys(settings.APIKey),
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrUnsupportedType, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	if aware, ok := svc.(driven.PromptStoreAware); ok && prompts != nil {
		aware.SetPromptStore(prompts)
	}
	return svc, nil
}

// CreateClassifier creates the zero-shot classifier selected by settings.
// The embedding strategy needs embedder and the llm strategy needs llm.
func CreateClassifier(
	settings *domain.ClassifierSettings,
	labels domain.CategorySet,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
) (driven.Classifier, error) {
	kind := domain.ClassifierEmbedding
	if settings != nil && settings.Kind != "" {
		kind = settings.Kind
	}
	template := hypothesisTemplate(settings, prompts)

	switch kind {
	case domain.ClassifierEmbedding:
		if embedder == nil {
			return nil, fmt.Errorf("%w: embedding classifier needs an embedding service", domain.ErrClassifierUnavailable)
		}
		return embedclassifier.New(embedder, labels, template), nil

	case domain.ClassifierHuggingFace:
		client := hf.NewClient(hf.Config{BaseURL: settings.BaseURL, Token: settings.APIKey})
		return hfclassifier.New(client, settings.Model, labels, template), nil

	case domain.ClassifierLLM:
		if llm == nil {
			return nil, fmt.Errorf("%w: llm classifier needs a configured LLM", domain.ErrClassifierUnavailable)
		}
		c := llmclassifier.New(llm, labels, template)
		if prompts != nil {
			c.SetPromptStore(prompts)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: unknown classifier %q", domain.ErrClassifierUnavailable, kind)
	}
}

// CreateSummarizer creates the summarizer selected by settings.
func CreateSummarizer(settings *domain.SummarizerSettings, llm driven.LLMService) (driven.Summarizer, error) {
	kind := domain.SummarizerFrequency
	if settings != nil && settings.Kind != "" {
		kind = settings.Kind
	}

	switch kind {
	case domain.SummarizerFrequency:
		return freqsummarizer.New(), nil

	case domain.SummarizerHuggingFace:
		client := hf.NewClient(hf.Config{BaseURL: settings.BaseURL, Token: settings.APIKey})
		return hfsummarizer.New(client, settings.Model), nil

	case domain.SummarizerLLM:
		if llm == nil {
			return nil, fmt.Errorf("%w: llm summarizer needs a configured LLM", domain.ErrSummarizerUnavailable)
		}
		return llmsummarizer.New(llm), nil

	default:
		return nil, fmt.Errorf("%w: unknown summarizer %q", domain.ErrSummarizerUnavailable, kind)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
}

// hypothesisTemplate prefers the configured template, then the prompt store.
func hypothesisTemplate(settings *domain.ClassifierSettings, prompts driven.PromptStore) string {
	if settings != nil && settings.HypothesisTemplate != "" {
		return settings.HypothesisTemplate
	}
	if prompts != nil {
		if t, err := prompts.Load(driven.PromptHypothesisTemplate); err == nil && strings.Contains(t, "{}") {
			return t
		}
	}
	return domain.DefaultHypothesisTemplate
}

// splitKeys splits a comma separated key list for providers that rotate keys.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	err := fn(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no response within %s", pingTimeout)
	}
	return err
}

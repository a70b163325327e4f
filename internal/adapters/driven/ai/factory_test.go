package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embedclassifier "github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier/embedding"
	hfclassifier "github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier/huggingface"
	llmclassifier "github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier/llm"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	localembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/ollama"
	anthropicllm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/ollama"
	freqsummarizer "github.com/custodia-labs/sercha-rag/internal/adapters/driven/summarizer/frequency"
	hfsummarizer "github.com/custodia-labs/sercha-rag/internal/adapters/driven/summarizer/huggingface"
	llmsummarizer "github.com/custodia-labs/sercha-rag/internal/adapters/driven/summarizer/llm"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ollamaServer answers the /api/tags ping.
func ollamaServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	// Should not panic
	result.Close()

	result = &InitResult{
		EmbeddingService: localembed.NewEmbeddingService(0),
		LLMService:       ollamallm.NewLLMService(ollamallm.LLMConfig{}),
	}
	result.Close()
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
		wantErr  bool
		wantType any
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name:     "local provider",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderLocal},
			wantType: &localembed.EmbeddingService{},
		},
		{
			name:     "ollama provider",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
			wantType: &ollamaembed.EmbeddingService{},
		},
		{
			name:    "openai without key is unconfigured",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantNil: true,
		},
		{
			name:     "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			assert.IsType(t, tt.wantType, svc)
		})
	}
}

func TestCreateEmbeddingService_LocalDimensions(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderLocal})
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingDimensions()["hashed-tf"], svc.Dimensions())
}

func TestCreateEmbeddingService_OllamaUnknownModelUsesDefault(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "custom"})
	require.NoError(t, err)
	assert.Equal(t, ollamaembed.DefaultDimensions, svc.Dimensions())
}

func TestCreateLLMService(t *testing.T) {
	t.Run("unconfigured returns nil", func(t *testing.T) {
		svc, err := CreateLLMService(&domain.LLMSettings{}, nil)
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "qwen3:8b"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &ollamallm.LLMService{}, svc)
		assert.Equal(t, "qwen3:8b", svc.ModelName())
	})

	t.Run("anthropic", func(t *testing.T) {
		svc, err := CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &anthropicllm.LLMService{}, svc)
	})

	t.Run("openai", func(t *testing.T) {
		svc, err := CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"}, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("hugging face cannot chat", func(t *testing.T) {
		svc, err := CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderHuggingFace, APIKey: "k"}, nil)
		require.NoError(t, err)
		assert.Nil(t, svc)
	})
}

func TestCreateClassifier(t *testing.T) {
	labels := domain.MustCategorySet("A", "B")
	embedder := localembed.NewEmbeddingService(0)
	llm := ollamallm.NewLLMService(ollamallm.LLMConfig{})

	c, err := CreateClassifier(nil, labels, embedder, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &embedclassifier.Classifier{}, c)
	assert.Equal(t, 2, c.Labels().Len())

	c, err = CreateClassifier(&domain.ClassifierSettings{Kind: domain.ClassifierHuggingFace, Model: "m"}, labels, embedder, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &hfclassifier.Classifier{}, c)

	c, err = CreateClassifier(&domain.ClassifierSettings{Kind: domain.ClassifierLLM}, labels, embedder, llm, nil)
	require.NoError(t, err)
	assert.IsType(t, &llmclassifier.Classifier{}, c)

	_, err = CreateClassifier(&domain.ClassifierSettings{Kind: domain.ClassifierLLM}, labels, embedder, nil, nil)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)

	_, err = CreateClassifier(nil, labels, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)

	_, err = CreateClassifier(&domain.ClassifierSettings{Kind: "bogus"}, labels, embedder, nil, nil)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

func TestCreateSummarizer(t *testing.T) {
	s, err := CreateSummarizer(nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &freqsummarizer.Summarizer{}, s)

	s, err = CreateSummarizer(&domain.SummarizerSettings{Kind: domain.SummarizerHuggingFace, Model: "m"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &hfsummarizer.Summarizer{}, s)

	s, err = CreateSummarizer(&domain.SummarizerSettings{Kind: domain.SummarizerLLM}, ollamallm.NewLLMService(ollamallm.LLMConfig{}))
	require.NoError(t, err)
	assert.IsType(t, &llmsummarizer.Summarizer{}, s)

	_, err = CreateSummarizer(&domain.SummarizerSettings{Kind: domain.SummarizerLLM}, nil)
	assert.ErrorIs(t, err, domain.ErrSummarizerUnavailable)
}

func TestHypothesisTemplate(t *testing.T) {
	assert.Equal(t, "About {}", hypothesisTemplate(&domain.ClassifierSettings{HypothesisTemplate: "About {}"}, nil))
	assert.Equal(t, domain.DefaultHypothesisTemplate, hypothesisTemplate(nil, nil))

	prompts, err := file.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHypothesisTemplate, hypothesisTemplate(&domain.ClassifierSettings{}, prompts))
}

func TestSplitKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitKeys(" a, ,b "))
	assert.Nil(t, splitKeys(""))
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusOK)
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}, nil)
		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusInternalServerError)
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}, nil)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Nil(t, svc)
	})

	t.Run("unconfigured", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(nil, nil)
		assert.NoError(t, err)
		assert.Nil(t, svc)
	})
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderLocal})
	require.NoError(t, err)
	assert.NotNil(t, svc)

	srv := ollamaServer(t, http.StatusServiceUnavailable)
	_, err = CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestInitialise(t *testing.T) {
	settings := domain.DefaultAppSettings()
	srv := ollamaServer(t, http.StatusOK)
	settings.LLM.BaseURL = srv.URL

	result, err := Initialise(&settings, nil)
	require.NoError(t, err)
	defer result.Close()

	assert.NotNil(t, result.EmbeddingService)
	assert.NotNil(t, result.LLMService)
	assert.NotNil(t, result.Classifier)
	assert.NotNil(t, result.Summarizer)
	assert.Empty(t, result.Warnings)
}

func TestInitialise_Errors(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Categories = nil
	_, err := Initialise(&settings, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	settings = domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{}
	_, err = Initialise(&settings, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestInitialise_LLMClassifierWithoutLLM(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.LLM = domain.LLMSettings{}
	settings.Classifier.Kind = domain.ClassifierLLM

	_, err := Initialise(&settings, nil)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

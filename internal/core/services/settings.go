package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCategories          = "categories"
	keyClassifierProvider  = "classifier.provider"
	keyClassifierModel     = "classifier.model"
	keyClassifierTemplate  = "classifier.hypothesis_template"
	keyClassifierBaseURL   = "classifier.base_url"
	keyClassifierAPIKey    = "classifier.api_key"
	keySummarizerProvider  = "summarizer.provider"
	keySummarizerModel     = "summarizer.model"
	keySummarizerMinLength = "summarizer.min_length"
	keySummarizerMaxLength = "summarizer.max_length"
	keySummarizerBaseURL   = "summarizer.base_url"
	keySummarizerAPIKey    = "summarizer.api_key"
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMTemperature      = "llm.temperature"
	keyLLMSeed             = "llm.seed"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMAPIKey           = "llm.api_key"
	keyStoreBackend        = "store.backend"
	keyStorePath           = "store.path"
	keyStoreWeaviateURL    = "store.weaviate_url"
	keyStoreWeaviateAPIKey = "store.weaviate_api_key"
	keyIngestChunkSize     = "ingest.chunk_size"
	keyIngestSummarize     = "ingest.summarize"
	keyIngestMinChunkChars = "ingest.min_chunk_chars"
	keyIngestExtractor     = "ingest.extractor"
	keyRetrievalNumDocs    = "retrieval.num_documents"
)

// Environment variables consulted when an API key is not configured.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvHFToken      = "HF_API_TOKEN"
	EnvWeaviateKey  = "WEAVIATE_API_KEY"
)

// settingKind is the stored type of a setting.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

// settingKeys lists every settable key in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{keyCategories, kindList},
	{keyClassifierProvider, kindString},
	{keyClassifierModel, kindString},
	{keyClassifierTemplate, kindString},
	{keyClassifierBaseURL, kindString},
	{keyClassifierAPIKey, kindString},
	{keySummarizerProvider, kindString},
	{keySummarizerModel, kindString},
	{keySummarizerMinLength, kindInt},
	{keySummarizerMaxLength, kindInt},
	{keySummarizerBaseURL, kindString},
	{keySummarizerAPIKey, kindString},
	{keyEmbedProvider, kindString},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindString},
	{keyLLMProvider, kindString},
	{keyLLMModel, kindString},
	{keyLLMTemperature, kindFloat},
	{keyLLMSeed, kindInt},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyStoreBackend, kindString},
	{keyStorePath, kindString},
	{keyStoreWeaviateURL, kindString},
	{keyStoreWeaviateAPIKey, kindString},
	{keyIngestChunkSize, kindInt},
	{keyIngestSummarize, kindBool},
	{keyIngestMinChunkChars, kindInt},
	{keyIngestExtractor, kindString},
	{keyRetrievalNumDocs, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Unset or invalid values fall
// back to defaults; empty API keys fall back to the provider's environment
// variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Categories: s.getList(keyCategories, d.Categories),
		Classifier: domain.ClassifierSettings{
			Kind:               s.getClassifierKind(d.Classifier.Kind),
			Model:              s.getString(keyClassifierModel, d.Classifier.Model),
			HypothesisTemplate: s.getString(keyClassifierTemplate, d.Classifier.HypothesisTemplate),
			BaseURL:            s.configStore.GetString(keyClassifierBaseURL),
			APIKey:             s.getString(keyClassifierAPIKey, s.getenv(EnvHFToken)),
		},
		Summarizer: domain.SummarizerSettings{
			Kind:      s.getSummarizerKind(d.Summarizer.Kind),
			Model:     s.getString(keySummarizerModel, d.Summarizer.Model),
			MinLength: s.getInt(keySummarizerMinLength, d.Summarizer.MinLength),
			MaxLength: s.getInt(keySummarizerMaxLength, d.Summarizer.MaxLength),
			BaseURL:   s.configStore.GetString(keySummarizerBaseURL),
			APIKey:    s.getString(keySummarizerAPIKey, s.getenv(EnvHFToken)),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, d.LLM.Provider),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			Seed:        s.getInt(keyLLMSeed, d.LLM.Seed),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
		},
		Store: domain.StoreSettings{
			Backend:        s.getStoreBackend(d.Store.Backend),
			Path:           s.configStore.GetString(keyStorePath),
			WeaviateURL:    s.configStore.GetString(keyStoreWeaviateURL),
			WeaviateAPIKey: s.getString(keyStoreWeaviateAPIKey, s.getenv(EnvWeaviateKey)),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:     s.getInt(keyIngestChunkSize, d.Ingest.ChunkSize),
			Summarize:     s.getBool(keyIngestSummarize, d.Ingest.Summarize),
			MinChunkChars: s.getInt(keyIngestMinChunkChars, d.Ingest.MinChunkChars),
			Extractor:     s.getString(keyIngestExtractor, d.Ingest.Extractor),
		},
		Retrieval: domain.RetrievalSettings{
			NumDocuments: s.getInt(keyRetrievalNumDocs, d.Retrieval.NumDocuments),
		},
	}

	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.Embedding.APIKey = s.getString(keyEmbedAPIKey, s.envKey(settings.Embedding.Provider))
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])
	settings.LLM.APIKey = s.getString(keyLLMAPIKey, s.envKey(settings.LLM.Provider))

	return settings, nil
}

// Save persists application settings. API keys are only written when set,
// so keys supplied through the environment are never copied to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyCategories:          settings.Categories,
		keyClassifierProvider:  string(settings.Classifier.Kind),
		keyClassifierModel:     settings.Classifier.Model,
		keyClassifierTemplate:  settings.Classifier.HypothesisTemplate,
		keyClassifierBaseURL:   settings.Classifier.BaseURL,
		keySummarizerProvider:  string(settings.Summarizer.Kind),
		keySummarizerModel:     settings.Summarizer.Model,
		keySummarizerMinLength: settings.Summarizer.MinLength,
		keySummarizerMaxLength: settings.Summarizer.MaxLength,
		keySummarizerBaseURL:   settings.Summarizer.BaseURL,
		keyEmbedProvider:       settings.Embedding.Provider.String(),
		keyEmbedModel:          settings.Embedding.Model,
		keyEmbedBaseURL:        settings.Embedding.BaseURL,
		keyLLMProvider:         settings.LLM.Provider.String(),
		keyLLMModel:            settings.LLM.Model,
		keyLLMTemperature:      settings.LLM.Temperature,
		keyLLMSeed:             settings.LLM.Seed,
		keyLLMBaseURL:          settings.LLM.BaseURL,
		keyStoreBackend:        string(settings.Store.Backend),
		keyStorePath:           settings.Store.Path,
		keyStoreWeaviateURL:    settings.Store.WeaviateURL,
		keyIngestChunkSize:     settings.Ingest.ChunkSize,
		keyIngestSummarize:     settings.Ingest.Summarize,
		keyIngestMinChunkChars: settings.Ingest.MinChunkChars,
		keyIngestExtractor:     settings.Ingest.Extractor,
		keyRetrievalNumDocs:    settings.Retrieval.NumDocuments,
	}
	secrets := map[string]string{
		keyClassifierAPIKey:    settings.Classifier.APIKey,
		keySummarizerAPIKey:    settings.Summarizer.APIKey,
		keyEmbedAPIKey:         settings.Embedding.APIKey,
		keyLLMAPIKey:           settings.LLM.APIKey,
		keyStoreWeaviateAPIKey: settings.Store.WeaviateAPIKey,
	}

	for _, k := range settingKeys {
		if v, ok := values[k.key]; ok {
			if err := s.configStore.Set(k.key, v); err != nil {
				return fmt.Errorf("save %s: %w", k.key, err)
			}
			continue
		}
		if v := secrets[k.key]; v != "" {
			if err := s.configStore.Set(k.key, v); err != nil {
				return fmt.Errorf("save %s: %w", k.key, err)
			}
		}
	}
	return nil
}

// Set parses value according to the key's type, validates it and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	if err := validateSetting(key, value); err != nil {
		return err
	}

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindList:
		list := splitList(value)
		if key == keyCategories {
			if _, err := domain.NewCategorySet(list); err != nil {
				return err
			}
		}
		parsed = list
	}

	return s.configStore.Set(key, parsed)
}

// Keys returns all settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Categories returns the validated category set.
func (s *SettingsService) Categories() (domain.CategorySet, error) {
	settings, err := s.Get()
	if err != nil {
		return domain.CategorySet{}, err
	}
	return domain.NewCategorySet(settings.Categories)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// validateSetting rejects enum values outside their allowed set.
func validateSetting(key, value string) error {
	var valid bool
	switch key {
	case keyEmbedProvider:
		valid = containsProvider(domain.AllEmbeddingProviders(), domain.AIProvider(value))
	case keyLLMProvider:
		valid = containsProvider(domain.AllLLMProviders(), domain.AIProvider(value))
	case keyClassifierProvider:
		valid = domain.ClassifierKind(value).IsValid()
	case keySummarizerProvider:
		valid = domain.SummarizerKind(value).IsValid()
	case keyStoreBackend:
		valid = domain.StoreBackend(value).IsValid()
	case keyIngestExtractor:
		valid = value == "pdf" || value == "pdftotext"
	default:
		return nil
	}
	if !valid {
		return fmt.Errorf("%w: %q is not a valid value for %s", domain.ErrInvalidInput, value, key)
	}
	return nil
}

func kindOf(key string) (settingKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

func containsProvider(list []domain.AIProvider, p domain.AIProvider) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envKey returns the API key from the environment for cloud providers.
func (s *SettingsService) envKey(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicKey)
	case domain.AIProviderGemini:
		return s.getenv(EnvGeminiKey)
	case domain.AIProviderHuggingFace:
		return s.getenv(EnvHFToken)
	default:
		return ""
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getClassifierKind(defaultVal domain.ClassifierKind) domain.ClassifierKind {
	kind := domain.ClassifierKind(s.configStore.GetString(keyClassifierProvider))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getSummarizerKind(defaultVal domain.SummarizerKind) domain.SummarizerKind {
	kind := domain.SummarizerKind(s.configStore.GetString(keySummarizerProvider))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getStoreBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.GetString(keyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings, LLM,
// classification or summarisation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderHuggingFace is the Hugging Face Inference API.
	AIProviderHuggingFace AIProvider = "huggingface"

	// AIProviderLocal is the built-in, in-process implementation.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic,
		AIProviderGemini, AIProviderHuggingFace, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderHuggingFace:
		return true
	default:
		return false
	}
}

// IsLocal returns true if this provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderHuggingFace:
		return "Hugging Face Inference API (cloud)"
	case AIProviderLocal:
		return "Built-in (in-process)"
	default:
		return unknownDescription
	}
}

// ClassifierKind selects the zero-shot classification strategy.
type ClassifierKind string

// Available classifier strategies.
const (
	// ClassifierEmbedding scores hypothesis sentences by embedding similarity.
	ClassifierEmbedding ClassifierKind = "embedding"

	// ClassifierHuggingFace calls a hosted NLI zero-shot model.
	ClassifierHuggingFace ClassifierKind = "huggingface"

	// ClassifierLLM asks the configured LLM to pick a label.
	ClassifierLLM ClassifierKind = "llm"
)

// IsValid returns true if the classifier kind is recognised.
func (k ClassifierKind) IsValid() bool {
	switch k {
	case ClassifierEmbedding, ClassifierHuggingFace, ClassifierLLM:
		return true
	default:
		return false
	}
}

// SummarizerKind selects the summarisation strategy.
type SummarizerKind string

// Available summariser strategies.
const (
	// SummarizerFrequency is an in-process extractive summariser.
	SummarizerFrequency SummarizerKind = "frequency"

	// SummarizerHuggingFace calls a hosted abstractive summarisation model.
	SummarizerHuggingFace SummarizerKind = "huggingface"

	// SummarizerLLM asks the configured LLM to summarise.
	SummarizerLLM SummarizerKind = "llm"
)

// IsValid returns true if the summariser kind is recognised.
func (k SummarizerKind) IsValid() bool {
	switch k {
	case SummarizerFrequency, SummarizerHuggingFace, SummarizerLLM:
		return true
	default:
		return false
	}
}

// StoreBackend selects the collection store implementation.
type StoreBackend string

// Available collection backends.
const (
	// StoreSQLite persists collections in a local SQLite database.
	StoreSQLite StoreBackend = "sqlite"

	// StoreMemory keeps collections in process memory only.
	StoreMemory StoreBackend = "memory"

	// StoreWeaviate keeps each collection as a Weaviate class.
	StoreWeaviate StoreBackend = "weaviate"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreSQLite, StoreMemory, StoreWeaviate:
		return true
	default:
		return false
	}
}

// IsPersistent returns true if collections survive process restarts.
func (b StoreBackend) IsPersistent() bool {
	return b != StoreMemory
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string

	// Temperature controls randomness of answers.
	Temperature float64

	// Seed makes sampling reproducible where the provider supports it.
	Seed int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal || l.Provider == AIProviderHuggingFace {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ClassifierSettings holds zero-shot classifier configuration.
type ClassifierSettings struct {
	// Kind is the classification strategy.
	Kind ClassifierKind

	// Model is the hosted model name (huggingface only).
	Model string

	// HypothesisTemplate is the zero-shot hypothesis; {} is replaced by the label.
	HypothesisTemplate string

	// BaseURL overrides the inference endpoint (huggingface only).
	BaseURL string

	// APIKey is the inference API token (huggingface only).
	APIKey string
}

// SummarizerSettings holds summariser configuration.
type SummarizerSettings struct {
	// Kind is the summarisation strategy.
	Kind SummarizerKind

	// Model is the hosted model name (huggingface only).
	Model string

	// MinLength is the minimum summary length.
	MinLength int

	// MaxLength is the maximum summary length.
	MaxLength int

	// BaseURL overrides the inference endpoint (huggingface only).
	BaseURL string

	// APIKey is the inference API token (huggingface only).
	APIKey string
}

// StoreSettings holds collection store configuration.
type StoreSettings struct {
	// Backend selects the implementation.
	Backend StoreBackend

	// Path is the data directory for file-backed stores.
	Path string

	// WeaviateURL is the Weaviate endpoint, e.g. http://localhost:8080.
	WeaviateURL string

	// WeaviateAPIKey authenticates against Weaviate Cloud.
	WeaviateAPIKey string
}

// IngestSettings holds ingestion defaults.
type IngestSettings struct {
	// ChunkSize is the maximum chunk size in characters.
	ChunkSize int

	// Summarize enables summarisation before classification.
	Summarize bool

	// MinChunkChars drops chunks shorter than this; 0 keeps everything.
	MinChunkChars int

	// Extractor selects the PDF extractor ("pdf" or "pdftotext").
	Extractor string
}

// RetrievalSettings holds query-time defaults.
type RetrievalSettings struct {
	// NumDocuments is the number of results fed into the synthesis prompt.
	NumDocuments int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Categories are the classification labels, one collection each.
	Categories []string

	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Classifier ClassifierSettings
	Summarizer SummarizerSettings
	Store      StoreSettings
	Ingest     IngestSettings
	Retrieval  RetrievalSettings
}

// Default values.
const (
	DefaultChunkSize          = 300
	DefaultNumDocuments       = 3
	DefaultHypothesisTemplate = "This text is about {}"
	DefaultLLMModel           = "qwen3:8b"
	DefaultLLMTemperature     = 0.3
	DefaultLLMSeed            = 99999
	DefaultClassifierModel    = "MoritzLaurer/deberta-v3-large-zeroshot-v2.0"
	DefaultSummarizerModel    = "facebook/bart-large-cnn"
	DefaultSummaryMinLength   = 50
	DefaultSummaryMaxLength   = 150
	DefaultExtractor          = "pdf"
)

// DefaultAppSettings returns settings that work without any cloud account:
// local embeddings, embedding-based classification, extractive summaries,
// SQLite persistence and a local Ollama model for answers.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Categories: DefaultCategories(),
		Embedding: EmbeddingSettings{
			Provider: AIProviderLocal,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       DefaultLLMModel,
			Temperature: DefaultLLMTemperature,
			Seed:        DefaultLLMSeed,
		},
		Classifier: ClassifierSettings{
			Kind:               ClassifierEmbedding,
			Model:              DefaultClassifierModel,
			HypothesisTemplate: DefaultHypothesisTemplate,
		},
		Summarizer: SummarizerSettings{
			Kind:      SummarizerFrequency,
			Model:     DefaultSummarizerModel,
			MinLength: DefaultSummaryMinLength,
			MaxLength: DefaultSummaryMaxLength,
		},
		Store: StoreSettings{
			Backend: StoreSQLite,
		},
		Ingest: IngestSettings{
			ChunkSize: DefaultChunkSize,
			Extractor: DefaultExtractor,
		},
		Retrieval: RetrievalSettings{
			NumDocuments: DefaultNumDocuments,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hashed-tf",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    DefaultLLMModel,
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderGemini:    "gemini-1.5-flash",
	}
}

// EmbeddingDimensions returns known embedding dimensions for models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"hashed-tf":              512,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSynthesisInstructions is the instruction block placed between the
	// retrieved context and the user question. It has no format placeholders.
	PromptSynthesisInstructions = "synthesis_instructions"

	// PromptSummarise creates summaries of chunk content.
	// The prompt template expects %d (max length) and %s (content) placeholders.
	PromptSummarise = "summarise"

	// PromptClassify asks an LLM to pick one category for a text.
	// The prompt template expects %s (hypotheses list) and %s (text) placeholders.
	PromptClassify = "classify"

	// PromptHypothesisTemplate is the zero-shot hypothesis used when the
	// classifier settings leave it empty. {} is replaced by the label.
	PromptHypothesisTemplate = "hypothesis_template"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}

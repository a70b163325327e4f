package driven

import "context"

// SummaryOptions bounds summary length and controls batching.
type SummaryOptions struct {
	// MinLength is the minimum summary length.
	MinLength int

	// MaxLength is the maximum summary length.
	MaxLength int

	// BatchSize is the number of texts sent per request; <= 0 means all at once.
	BatchSize int
}

// Summarizer compresses texts before they are classified and stored.
type Summarizer interface {
	// SummarizeBatch returns one summary per input text, order-preserved.
	SummarizeBatch(ctx context.Context, texts []string, opts SummaryOptions) ([]string, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Classifier assigns each text exactly one label from a closed category set.
// Implementations are constructed with the category set and a hypothesis
// template (e.g. "This text is about {}") used for zero-shot scoring.
type Classifier interface {
	// Labels returns the category set the classifier chooses from.
	Labels() domain.CategorySet

	// Classify returns the top label and its confidence for one text.
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)

	// ClassifyBatch classifies texts in bulk.
	// The result is positionally aligned with texts: result[i] belongs to texts[i].
	ClassifyBatch(ctx context.Context, texts []string) ([]domain.ClassificationResult, error)
}

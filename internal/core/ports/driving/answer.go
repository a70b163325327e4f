package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// AnswerService answers questions from the stored collections.
// Every call is independent: no conversation state carries between calls.
type AnswerService interface {
	// Ask retrieves numDocuments results across all collections and
	// synthesises an answer. numDocuments <= 0 uses the configured default.
	Ask(ctx context.Context, question string, numDocuments int) (*domain.Answer, error)
}

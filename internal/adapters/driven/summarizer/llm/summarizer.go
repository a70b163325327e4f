// Package llm summarizes text through the configured language model.
package llm

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/textproc"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

// charsPerWord converts the word-based MaxLength into the character budget
// LLMService.Summarise expects.
const charsPerWord = 6

// Summarizer calls LLMService.Summarise once per text.
type Summarizer struct {
	llm driven.LLMService
}

// New creates an LLM summarizer.
func New(llm driven.LLMService) *Summarizer {
	return &Summarizer{llm: llm}
}

// SummarizeBatch summarizes texts in order. Reasoning blocks are removed
// from each summary.
func (s *Summarizer) SummarizeBatch(ctx context.Context, texts []string, opts driven.SummaryOptions) ([]string, error) {
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = domain.DefaultSummaryMaxLength
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		summary, err := s.llm.Summarise(ctx, text, maxLength*charsPerWord)
		if err != nil {
			return nil, fmt.Errorf("%w: summarise text %d: %w", domain.ErrSummarizerUnavailable, i, err)
		}
		out[i] = textproc.StripReasoning(summary)
	}
	return out, nil
}

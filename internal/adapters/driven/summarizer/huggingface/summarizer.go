// Package huggingface summarizes text with a hosted sequence-to-sequence
// model through the Hugging Face Inference API.
package huggingface

import (
	"context"
	"fmt"

	hf "github.com/custodia-labs/sercha-rag/internal/adapters/driven/huggingface"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

// DefaultModel is the default summarization model.
const DefaultModel = domain.DefaultSummarizerModel

// Summarizer calls the summarization task. Lengths are model tokens.
type Summarizer struct {
	client *hf.Client
	model  string
}

// New creates a Hugging Face summarizer.
func New(client *hf.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

type summarizeRequest struct {
	Inputs     []string        `json:"inputs"`
	Parameters summarizeParams `json:"parameters"`
}

type summarizeParams struct {
	MinLength int  `json:"min_length,omitempty"`
	MaxLength int  `json:"max_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type summaryText struct {
	SummaryText string `json:"summary_text"`
}

// SummarizeBatch sends texts in batches of opts.BatchSize (all at once when
// non-positive) and returns one summary per text, in order.
func (s *Summarizer) SummarizeBatch(ctx context.Context, texts []string, opts driven.SummaryOptions) ([]string, error) {
	size := opts.BatchSize
	if size <= 0 || size > len(texts) {
		size = len(texts)
	}

	out := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))

		req := summarizeRequest{
			Inputs: texts[start:end],
			Parameters: summarizeParams{
				MinLength: opts.MinLength,
				MaxLength: opts.MaxLength,
			},
		}

		var resp []summaryText
		if err := s.client.Infer(ctx, s.model, req, &resp); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSummarizerUnavailable, err)
		}
		if len(resp) != end-start {
			return nil, fmt.Errorf("summarizer returned %d summaries for %d texts", len(resp), end-start)
		}
		for _, r := range resp {
			out = append(out, r.SummaryText)
		}
	}
	return out, nil
}

// Package huggingface classifies text with a hosted zero-shot NLI model
// through the Hugging Face Inference API.
package huggingface

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier"
	hf "github.com/custodia-labs/sercha-rag/internal/adapters/driven/huggingface"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.Classifier = (*Classifier)(nil)

// DefaultModel is the default zero-shot classification model.
const DefaultModel = domain.DefaultClassifierModel

// Classifier calls the zero-shot-classification task.
type Classifier struct {
	client   *hf.Client
	model    string
	labels   domain.CategorySet
	template string
}

// New creates a Hugging Face zero-shot classifier.
func New(client *hf.Client, model string, labels domain.CategorySet, template string) *Classifier {
	if model == "" {
		model = DefaultModel
	}
	if template == "" {
		template = domain.DefaultHypothesisTemplate
	}
	return &Classifier{client: client, model: model, labels: labels, template: template}
}

type zeroShotRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters zeroShotParams `json:"parameters"`
}

type zeroShotParams struct {
	CandidateLabels    []string `json:"candidate_labels"`
	HypothesisTemplate string   `json:"hypothesis_template"`
	MultiLabel         bool     `json:"multi_label"`
}

// zeroShotResponse is the legacy {labels, scores} shape.
type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// labelScore is the router's [{label, score}] shape.
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Labels returns the category set.
func (c *Classifier) Labels() domain.CategorySet { return c.labels }

// Classify returns the top label for one text.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	req := zeroShotRequest{
		Inputs: text,
		Parameters: zeroShotParams{
			CandidateLabels:    c.labels.Labels(),
			HypothesisTemplate: c.template,
		},
	}

	var raw json.RawMessage
	if err := c.client.Infer(ctx, c.model, req, &raw); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}

	scores, err := parseScores(raw)
	if err != nil {
		return domain.ClassificationResult{}, err
	}

	probs := make([]float64, c.labels.Len())
	for i, label := range c.labels.Labels() {
		score, ok := scores[label]
		if !ok {
			return domain.ClassificationResult{}, fmt.Errorf("%w: response missing label %q", domain.ErrUnknownCategory, label)
		}
		probs[i] = score
	}
	return classifier.Best(c.labels, probs)
}

// ClassifyBatch classifies texts one request at a time, preserving order.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) ([]domain.ClassificationResult, error) {
	return classifier.ClassifyEach(ctx, texts, c.Classify)
}

// parseScores accepts either response shape and returns label -> score.
func parseScores(raw json.RawMessage) (map[string]float64, error) {
	var legacy zeroShotResponse
	if err := json.Unmarshal(raw, &legacy); err == nil && len(legacy.Labels) > 0 {
		if len(legacy.Labels) != len(legacy.Scores) {
			return nil, fmt.Errorf("zero-shot response has %d labels and %d scores", len(legacy.Labels), len(legacy.Scores))
		}
		out := make(map[string]float64, len(legacy.Labels))
		for i, l := range legacy.Labels {
			out[l] = legacy.Scores[i]
		}
		return out, nil
	}

	var pairs []labelScore
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("decode zero-shot response: %w", err)
	}
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		out[p.Label] = p.Score
	}
	return out, nil
}

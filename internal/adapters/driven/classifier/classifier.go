// Package classifier holds helpers shared by the zero-shot classifier
// adapters. Each adapter picks exactly one label from a closed category set.
package classifier

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Placeholder is replaced by the label in a hypothesis template.
const Placeholder = "{}"

// Hypothesis renders the hypothesis sentence for label, e.g.
// "This text is about Scope of Work". Underscores in the label read as spaces.
func Hypothesis(template, label string) string {
	if template == "" {
		template = domain.DefaultHypothesisTemplate
	}
	readable := strings.ReplaceAll(label, "_", " ")
	if !strings.Contains(template, Placeholder) {
		return strings.TrimSpace(template) + " " + readable
	}
	return strings.ReplaceAll(template, Placeholder, readable)
}

// Softmax converts scores into probabilities that sum to 1.
func Softmax(scores []float64, temperature float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	if temperature <= 0 {
		temperature = 1
	}

	maxScore := math.Inf(-1)
	for _, s := range scores {
		maxScore = math.Max(maxScore, s)
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp((s - maxScore) / temperature)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Best returns the first label with the highest probability.
func Best(labels domain.CategorySet, probs []float64) (domain.ClassificationResult, error) {
	names := labels.Labels()
	if len(probs) != len(names) {
		return domain.ClassificationResult{}, fmt.Errorf("%d scores for %d labels", len(probs), len(names))
	}

	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return domain.ClassificationResult{Label: names[best], Confidence: probs[best]}, nil
}

// ClassifyEach runs classify over texts sequentially, keeping positions.
func ClassifyEach(
	ctx context.Context,
	texts []string,
	classify func(context.Context, string) (domain.ClassificationResult, error),
) ([]domain.ClassificationResult, error) {
	out := make([]domain.ClassificationResult, len(texts))
	for i, text := range texts {
		res, err := classify(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("classify text %d: %w", i, err)
		}
		out[i] = res
	}
	return out, nil
}

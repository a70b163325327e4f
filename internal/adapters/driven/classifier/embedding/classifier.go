// Package embedding classifies text zero-shot by comparing its embedding
// with embeddings of one hypothesis sentence per label.
package embedding

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.Classifier = (*Classifier)(nil)

// DefaultTemperature sharpens cosine similarities before the softmax.
const DefaultTemperature = 0.1

// Classifier scores each label by cosine similarity between the text and the
// label's hypothesis sentence. Confidence is the softmax of those similarities.
type Classifier struct {
	embedder    driven.EmbeddingService
	labels      domain.CategorySet
	template    string
	temperature float64

	mu         sync.Mutex
	hypotheses [][]float32
}

// New creates an embedding classifier.
func New(embedder driven.EmbeddingService, labels domain.CategorySet, template string) *Classifier {
	if template == "" {
		template = domain.DefaultHypothesisTemplate
	}
	return &Classifier{
		embedder:    embedder,
		labels:      labels,
		template:    template,
		temperature: DefaultTemperature,
	}
}

// Labels returns the category set.
func (c *Classifier) Labels() domain.CategorySet { return c.labels }

// Classify returns the best label for text.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	out, err := c.ClassifyBatch(ctx, []string{text})
	if err != nil {
		return domain.ClassificationResult{}, err
	}
	return out[0], nil
}

// ClassifyBatch embeds all texts in one call and scores them.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) ([]domain.ClassificationResult, error) {
	if len(texts) == 0 {
		return []domain.ClassificationResult{}, nil
	}

	hyps, err := c.hypothesisVectors(ctx)
	if err != nil {
		return nil, err
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed texts: %w", domain.ErrClassifierUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	out := make([]domain.ClassificationResult, len(texts))
	for i, vec := range vectors {
		sims := make([]float64, len(hyps))
		for j, h := range hyps {
			sims[j] = cosine(vec, h)
		}
		res, err := classifier.Best(c.labels, classifier.Softmax(sims, c.temperature))
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}

// hypothesisVectors embeds the hypothesis sentences once. A failure is not
// cached so a later call can retry.
func (c *Classifier) hypothesisVectors(ctx context.Context) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hypotheses != nil {
		return c.hypotheses, nil
	}

	labels := c.labels.Labels()
	sentences := make([]string, len(labels))
	for i, l := range labels {
		sentences[i] = classifier.Hypothesis(c.template, l)
	}

	vecs, err := c.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("%w: embed hypotheses: %w", domain.ErrClassifierUnavailable, err)
	}
	c.hypotheses = vecs
	return vecs, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

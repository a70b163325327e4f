// Package llm classifies text by asking a language model to name one
// category.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/classifier"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
	"github.com/custodia-labs/sercha-rag/internal/textproc"
)

// Ensure Classifier implements the interface.
var _ driven.Classifier = (*Classifier)(nil)

// defaultClassifyPrompt is the fallback prompt when no PromptStore is configured.
const defaultClassifyPrompt = `Classify the text into exactly one of the categories below.
Pick the category whose statement best describes the text.

Categories:
%s

Text:
%s

Answer with the category name only.`

// Confidence levels for parsed replies.
const (
	exactConfidence   = 1.0
	partialConfidence = 0.5
)

// Classifier prompts an LLM once per text.
type Classifier struct {
	llm         driven.LLMService
	labels      domain.CategorySet
	template    string
	promptStore driven.PromptStore
}

// New creates an LLM classifier.
func New(llm driven.LLMService, labels domain.CategorySet, template string) *Classifier {
	if template == "" {
		template = domain.DefaultHypothesisTemplate
	}
	return &Classifier{llm: llm, labels: labels, template: template}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (c *Classifier) SetPromptStore(store driven.PromptStore) {
	c.promptStore = store
}

// Labels returns the category set.
func (c *Classifier) Labels() domain.CategorySet { return c.labels }

// Classify asks the model for one label. A reply naming no known label falls
// back to the first label with zero confidence.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	var options strings.Builder
	for _, label := range c.labels.Labels() {
		fmt.Fprintf(&options, "- %s: %s\n", label, classifier.Hypothesis(c.template, label))
	}

	tmpl := defaultClassifyPrompt
	if c.promptStore != nil {
		if p, err := c.promptStore.Load(driven.PromptClassify); err == nil {
			tmpl = p
		}
	}

	reply, err := c.llm.Generate(ctx, fmt.Sprintf(tmpl, options.String(), text), driven.GenerateOptions{
		MaxTokens:   64,
		Temperature: 0,
	})
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}

	res, ok := parseReply(c.labels, reply)
	if !ok {
		logger.Warn("llm classifier: reply %q names no category, using %s", reply, res.Label)
	}
	return res, nil
}

// ClassifyBatch classifies texts one prompt at a time, preserving order.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) ([]domain.ClassificationResult, error) {
	return classifier.ClassifyEach(ctx, texts, c.Classify)
}

// parseReply maps a model reply onto a label. An exact (case-insensitive)
// match scores 1; otherwise the earliest label mentioned scores 0.5.
func parseReply(labels domain.CategorySet, reply string) (domain.ClassificationResult, bool) {
	answer := strings.Trim(textproc.StripReasoning(reply), " \t\n\"'`.*-")
	names := labels.Labels()

	for _, label := range names {
		if strings.EqualFold(answer, label) || strings.EqualFold(answer, strings.ReplaceAll(label, "_", " ")) {
			return domain.ClassificationResult{Label: label, Confidence: exactConfidence}, true
		}
	}

	lower := strings.ToLower(answer)
	best, bestPos := "", -1
	for _, label := range names {
		for _, form := range []string{label, strings.ReplaceAll(label, "_", " ")} {
			pos := strings.Index(lower, strings.ToLower(form))
			if pos >= 0 && (bestPos < 0 || pos < bestPos) {
				best, bestPos = label, pos
			}
		}
	}
	if bestPos >= 0 {
		return domain.ClassificationResult{Label: best, Confidence: partialConfidence}, true
	}

	return domain.ClassificationResult{Label: names[0], Confidence: 0}, false
}

// Package frequency summarizes text offline by keeping the sentences whose
// words are most frequent in the text.
package frequency

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/textproc"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

// Summarizer is an extractive sentence ranker. Lengths in SummaryOptions
// are counted in words.
type Summarizer struct{}

// New creates a frequency summarizer.
func New() *Summarizer {
	return &Summarizer{}
}

// SummarizeBatch summarizes each text independently, preserving order.
func (s *Summarizer) SummarizeBatch(ctx context.Context, texts []string, opts driven.SummaryOptions) ([]string, error) {
	if opts.MaxLength <= 0 {
		opts.MaxLength = domain.DefaultSummaryMaxLength
	}
	if opts.MinLength < 0 || opts.MinLength > opts.MaxLength {
		opts.MinLength = 0
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = Summarize(text, opts.MinLength, opts.MaxLength)
	}
	return out, nil
}

// Summarize returns the top ranked sentences of text, in original order,
// without exceeding maxWords. Text that already fits, or that is no longer
// than minWords, is returned trimmed and unchanged.
func Summarize(text string, minWords, maxWords int) string {
	text = strings.TrimSpace(text)
	total := len(strings.Fields(text))
	if total <= maxWords || total <= minWords {
		return text
	}

	sentences := textproc.Sentences(text)
	if len(sentences) <= 1 {
		return truncateWords(text, maxWords)
	}

	// Normalised content-word frequencies.
	freq := make(map[string]float64)
	var maxF float64
	for _, sent := range sentences {
		for _, tok := range textproc.ContentTokens(sent) {
			freq[tok]++
			maxF = math.Max(maxF, freq[tok])
		}
	}

	type ranked struct {
		idx   int
		score float64
		words int
	}
	ranks := make([]ranked, len(sentences))
	for i, sent := range sentences {
		var score float64
		tokens := textproc.Tokenize(sent)
		for _, tok := range tokens {
			if f, ok := freq[tok]; ok && maxF > 0 {
				score += f / maxF
			}
		}
		if len(tokens) > 0 {
			score /= math.Sqrt(float64(len(tokens)))
		}
		ranks[i] = ranked{idx: i, score: score, words: len(strings.Fields(sent))}
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].score > ranks[j].score })

	var selected []int
	used := 0
	for _, r := range ranks {
		if used+r.words > maxWords {
			continue
		}
		selected = append(selected, r.idx)
		used += r.words
	}
	if len(selected) == 0 {
		return truncateWords(sentences[ranks[0].idx], maxWords)
	}

	sort.Ints(selected)
	parts := make([]string, len(selected))
	for i, idx := range selected {
		parts[i] = sentences[idx]
	}
	return strings.Join(parts, " ")
}

func truncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ")
}

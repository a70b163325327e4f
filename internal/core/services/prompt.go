package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// BuildSynthesisPrompt assembles the synthesis prompt: each retrieved
// document followed by its citation line, then the instruction block, then
// the question.
func BuildSynthesisPrompt(question string, results []domain.QueryResult, instructions string) string {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Document)
		fmt.Fprintf(&b, "\n[Category: %s - Source: %s - Page: %d]\n",
			r.Collection, r.Metadata.Source, r.Metadata.PageNumber)
	}
	b.WriteString(instructions)
	b.WriteString("\n\nUser Question:\n")
	b.WriteString(question)
	return b.String()
}

// NormaliseInstructions frames a trimmed instruction block with the leading
// and trailing newline the prompt layout expects.
func NormaliseInstructions(instructions string) string {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		instructions = strings.TrimSpace(domain.DefaultSynthesisInstructions)
	}
	return "\n" + instructions + "\n"
}

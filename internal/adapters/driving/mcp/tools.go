package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// defaultK is the number of results returned when a tool call omits it.
const defaultK = 3

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question     string `json:"question" jsonschema:"the question to answer from the stored documents"`
	NumDocuments int    `json:"num_documents,omitempty" jsonschema:"number of context passages to retrieve (default 3)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string         `json:"answer"`
	Citations []ResultOutput `json:"citations"`
	Seconds   float64        `json:"seconds"`
}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Text string `json:"text" jsonschema:"text to find similar passages for"`
	K    int    `json:"k,omitempty" jsonschema:"maximum number of results to return (default 3)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// ResultOutput represents a single retrieved passage.
type ResultOutput struct {
	ID         string  `json:"id"`
	Collection string  `json:"collection"`
	Source     string  `json:"source"`
	Page       int     `json:"page"`
	Score      float64 `json:"score"`
	Document   string  `json:"document"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path      string `json:"path" jsonschema:"path of a local file to ingest"`
	Summarize bool   `json:"summarize,omitempty" jsonschema:"store chunk summaries instead of raw text"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Source        string         `json:"source"`
	Chunks        int            `json:"chunks"`
	Existing      int            `json:"existing"`
	New           int            `json:"new"`
	PerCollection map[string]int `json:"per_collection"`
	Skipped       bool           `json:"skipped"`
	Reason        string         `json:"reason,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the stored documents, with page citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Return the passages most similar to a text across all collections",
	}, s.handleQuery)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Extract, classify and store a local document",
		}, s.handleIngest)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Ask(ctx, input.Question, input.NumDocuments)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:    answer.Text,
		Citations: toResults(answer.Context),
		Seconds:   answer.Elapsed.Seconds(),
	}, nil
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	k := input.K
	if k <= 0 {
		k = defaultK
	}

	results := s.ports.Collections.QueryAllCollections(ctx, input.Text, k)
	return nil, QueryOutput{
		Results: toResults(results),
		Count:   len(results),
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, ErrIngestDisabled
	}

	report, err := s.ports.Ingest.Ingest(ctx, input.Path, "", driving.IngestOptions{Summarize: input.Summarize})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Source:        report.Source,
		Chunks:        report.Chunks,
		Existing:      report.Existing,
		New:           report.New,
		PerCollection: report.PerCollection,
		Skipped:       report.Skipped,
		Reason:        report.Reason,
	}, nil
}

func toResults(results []domain.QueryResult) []ResultOutput {
	out := make([]ResultOutput, len(results))
	for i, r := range results {
		out[i] = ResultOutput{
			ID:         r.ID,
			Collection: r.Collection,
			Source:     r.Metadata.Source,
			Page:       r.Metadata.PageNumber,
			Score:      r.Score,
			Document:   r.Document,
		}
	}
	return out
}

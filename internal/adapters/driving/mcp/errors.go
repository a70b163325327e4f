// Package mcp provides an MCP (Model Context Protocol) server adapter for sercha-rag.
// It lets AI assistants ask questions of, query and feed the local collections.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrMissingCollectionService is returned when the collection service is not provided.
var ErrMissingCollectionService = errors.New("mcp: collection service is required")

// ErrIngestDisabled is returned by the ingest tool when no ingest service is configured.
var ErrIngestDisabled = errors.New("mcp: ingestion is not enabled")

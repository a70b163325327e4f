package domain

import "time"

// QueryResult is a single similarity hit returned from a collection.
// Results from different collections are merged by Score, lower is more similar.
type QueryResult struct {
	// Collection is the collection (category) the hit came from.
	Collection string

	// Document is the stored record text.
	Document string

	// Metadata is the stored record metadata.
	Metadata RecordMetadata

	// ID is the stored record id.
	ID string

	// Score is the distance between query and record embeddings.
	Score float64
}

// Answer is the outcome of one retrieval/synthesis turn.
type Answer struct {
	// Text is the cleaned model output.
	Text string

	// Context holds the retrieved results the prompt was built from.
	Context []QueryResult

	// Elapsed is the wall-clock time of the turn.
	Elapsed time.Duration
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Source is the source identifier records were tagged with.
	Source string

	// Pages is the number of pages extracted.
	Pages int

	// Chunks is the number of unique chunks produced from non-blank pages.
	Chunks int

	// Existing is the number of chunks already present in some collection.
	Existing int

	// New is the number of chunks classified and stored.
	New int

	// PerCollection maps collection name to the number of records added.
	PerCollection map[string]int

	// Skipped is true when the run ended early with nothing to store.
	Skipped bool

	// Reason explains why the run was skipped.
	Reason string
}

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Skip reasons reported when an ingestion run stores nothing.
const (
	ReasonNoText      = "no extractable text"
	ReasonAllExisting = "all chunks already stored"
)

// PipelineBuilder returns a chunk pipeline for the given maximum chunk size.
type PipelineBuilder func(chunkSize int) (driven.PostProcessorPipeline, error)

// IngestService turns pages into classified, de-duplicated records.
// Runs are serialised so concurrent callers cannot insert the same chunk twice.
type IngestService struct {
	store         *CollectionStore
	classifier    driven.Classifier
	extractors    driven.ExtractorRegistry
	buildPipeline PipelineBuilder
	summarizer    driven.Summarizer

	chunkSize   int
	summaryOpts driven.SummaryOptions

	mu sync.Mutex
}

// NewIngestService creates a new ingestion service.
// The extractors registry is optional; without it only IngestPages is usable.
func NewIngestService(
	store *CollectionStore,
	classifier driven.Classifier,
	extractors driven.ExtractorRegistry,
	buildPipeline PipelineBuilder,
) *IngestService {
	return &IngestService{
		store:         store,
		classifier:    classifier,
		extractors:    extractors,
		buildPipeline: buildPipeline,
		chunkSize:     domain.DefaultChunkSize,
		summaryOpts: driven.SummaryOptions{
			MinLength: domain.DefaultSummaryMinLength,
			MaxLength: domain.DefaultSummaryMaxLength,
		},
	}
}

// SetSummarizer sets the summarizer used when IngestOptions.Summarize is true.
func (s *IngestService) SetSummarizer(summarizer driven.Summarizer, minLength, maxLength int) {
	s.summarizer = summarizer
	if minLength > 0 {
		s.summaryOpts.MinLength = minLength
	}
	if maxLength > 0 {
		s.summaryOpts.MaxLength = maxLength
	}
}

// SetChunkSize sets the default maximum chunk size.
func (s *IngestService) SetChunkSize(size int) {
	if size > 0 {
		s.chunkSize = size
	}
}

// Supports reports whether path has an extractable file type.
func (s *IngestService) Supports(path string) bool {
	return s.extractors != nil && s.extractors.Supports(path)
}

// Ingest extracts the file at path and stores its new chunks.
// A file that cannot be extracted is logged and reported as skipped.
func (s *IngestService) Ingest(
	ctx context.Context, path, source string, opts driving.IngestOptions,
) (*domain.IngestReport, error) {
	if source == "" {
		source = filepath.Base(path)
	}
	if !s.Supports(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}

	logger.Section("Extracting " + source)
	start := time.Now()
	pages, err := s.extractors.Extract(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Error("Failed to extract %s: %v", path, err)
		return &domain.IngestReport{
			Source:        source,
			PerCollection: map[string]int{},
			Skipped:       true,
			Reason:        ReasonNoText,
		}, nil
	}
	logger.Debug("Extracted %d pages in %s", len(pages), time.Since(start).Round(time.Millisecond))

	return s.IngestPages(ctx, pages, source, opts)
}

// IngestPages chunks, de-duplicates, classifies and stores pages.
func (s *IngestService) IngestPages(
	ctx context.Context, pages []domain.Page, source string, opts driving.IngestOptions,
) (*domain.IngestReport, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: source is required", domain.ErrInvalidInput)
	}
	report := &domain.IngestReport{
		Source:        source,
		Pages:         len(pages),
		PerCollection: map[string]int{},
	}

	chunks, err := s.chunk(ctx, pages, opts.ChunkSize)
	if err != nil {
		return nil, err
	}
	chunks = uniqueChunks(chunks)
	report.Chunks = len(chunks)
	logger.Debug("Chunked %d pages into %d unique chunks", len(pages), len(chunks))

	if len(chunks) == 0 {
		report.Skipped = true
		report.Reason = ReasonNoText
		return report, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, err = s.dropExisting(ctx, chunks, report)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		logger.Info("%s: all %d chunks already stored", source, report.Chunks)
		report.Skipped = true
		report.Reason = ReasonAllExisting
		return report, nil
	}

	texts, err := s.processTexts(ctx, chunks, opts.Summarize)
	if err != nil {
		return nil, err
	}

	records, err := s.classify(ctx, chunks, texts, source)
	if err != nil {
		return nil, err
	}

	if err := s.insert(ctx, records, report); err != nil {
		return nil, err
	}

	logger.Info("%s: stored %d new chunks (%d already present)", source, report.New, report.Existing)
	return report, nil
}

// chunk runs every non-blank page through the chunk pipeline.
func (s *IngestService) chunk(ctx context.Context, pages []domain.Page, chunkSize int) (domain.Chunks, error) {
	if chunkSize <= 0 {
		chunkSize = s.chunkSize
	}
	pipeline, err := s.buildPipeline(chunkSize)
	if err != nil {
		return nil, fmt.Errorf("build chunk pipeline: %w", err)
	}

	var chunks domain.Chunks
	for _, page := range pages {
		if page.IsBlank() {
			continue
		}
		pageChunks, err := pipeline.Process(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("chunk page %d: %w", page.Number, err)
		}
		chunks = append(chunks, pageChunks...)
	}
	return chunks, nil
}

// uniqueChunks drops repeated ids, keeping the first occurrence.
func uniqueChunks(chunks domain.Chunks) domain.Chunks {
	seen := make(map[string]struct{}, len(chunks))
	unique := make(domain.Chunks, 0, len(chunks))
	for _, c := range chunks {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// dropExisting removes chunks already stored in any category collection.
func (s *IngestService) dropExisting(
	ctx context.Context, chunks domain.Chunks, report *domain.IngestReport,
) (domain.Chunks, error) {
	existing, err := s.store.QueryCollectionsByIDs(ctx, chunks.IDs())
	if err != nil {
		return nil, fmt.Errorf("check existing chunks: %w", err)
	}
	report.Existing = len(existing)
	if len(existing) == 0 {
		return chunks, nil
	}

	stored := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		stored[id] = struct{}{}
	}
	fresh := make(domain.Chunks, 0, len(chunks)-len(existing))
	for _, c := range chunks {
		if _, ok := stored[c.ID]; !ok {
			fresh = append(fresh, c)
		}
	}
	return fresh, nil
}

// processTexts returns the texts to classify and store, summarised when requested.
func (s *IngestService) processTexts(ctx context.Context, chunks domain.Chunks, summarize bool) ([]string, error) {
	raw := chunks.Texts()
	if !summarize {
		return raw, nil
	}
	if s.summarizer == nil {
		return nil, domain.ErrSummarizerUnavailable
	}

	logger.Section("Summarizing")
	opts := s.summaryOpts
	opts.BatchSize = len(raw)
	summaries, err := s.summarizer.SummarizeBatch(ctx, raw, opts)
	if err != nil {
		return nil, fmt.Errorf("summarize chunks: %w", err)
	}
	if len(summaries) != len(raw) {
		return nil, fmt.Errorf("summarizer returned %d summaries for %d chunks", len(summaries), len(raw))
	}
	return summaries, nil
}

// classify labels texts in bulk and pairs each result with its chunk by position.
func (s *IngestService) classify(
	ctx context.Context, chunks domain.Chunks, texts []string, source string,
) ([]domain.StoredRecord, error) {
	if s.classifier == nil {
		return nil, domain.ErrClassifierUnavailable
	}

	logger.Section("Classifying")
	start := time.Now()
	results, err := s.classifier.ClassifyBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("classify chunks: %w", err)
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("classifier returned %d results for %d texts", len(results), len(texts))
	}
	logger.Debug("Classified %d chunks in %s", len(texts), time.Since(start).Round(time.Millisecond))

	labels := s.classifier.Labels()
	records := make([]domain.StoredRecord, len(chunks))
	for i, r := range results {
		if !labels.Contains(r.Label) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, r.Label)
		}
		records[i] = domain.StoredRecord{
			ID:       chunks[i].ID,
			Document: texts[i],
			Metadata: domain.RecordMetadata{
				Source:         source,
				Classification: r.Label,
				Confidence:     r.Confidence,
				PageNumber:     chunks[i].PageNumber,
			},
		}
	}
	return records, nil
}

// insert groups records by label, in first-seen order, and bulk-inserts each group.
func (s *IngestService) insert(ctx context.Context, records []domain.StoredRecord, report *domain.IngestReport) error {
	var order []string
	groups := make(map[string][]domain.StoredRecord)
	for _, r := range records {
		label := r.Metadata.Classification
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], r)
	}

	logger.Section("Storing")
	for _, label := range order {
		group := groups[label]
		if err := s.store.AddDocuments(ctx, label, group); err != nil {
			if errors.Is(err, domain.ErrCollectionNotFound) {
				logger.Error("Collection %s is missing; category set and collections are out of sync", label)
			}
			return fmt.Errorf("store %s records: %w", label, err)
		}
		report.PerCollection[label] = len(group)
		report.New += len(group)
		logger.Debug("%s: %d records", label, len(group))
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// WatchService ingests supported files as they appear in a directory.
// Ingestion is idempotent, so repeated events for a file are harmless.
type WatchService struct {
	ingest  driving.IngestService
	watcher driven.FileWatcher
	opts    driving.IngestOptions
}

// NewWatchService creates a new watch service.
func NewWatchService(ingest driving.IngestService, watcher driven.FileWatcher, opts driving.IngestOptions) *WatchService {
	return &WatchService{
		ingest:  ingest,
		watcher: watcher,
		opts:    opts,
	}
}

// IngestExisting ingests every supported file under dir, in name order.
// Per-file failures are logged and do not stop the walk.
func (s *WatchService) IngestExisting(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() && s.ingest.Supports(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	logger.Info("Ingesting %d existing files from %s", len(files), dir)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.ingestFile(ctx, path)
	}
	return nil
}

// Watch ingests created or modified files until ctx is done.
func (s *WatchService) Watch(ctx context.Context, dir string) error {
	events, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer func() {
		if err := s.watcher.Stop(); err != nil {
			logger.Warn("Failed to stop watcher: %v", err)
		}
	}()

	logger.Info("Watching %s", dir)
	for ev := range events {
		if ev.Operation == driven.FileDeleted {
			logger.Debug("Ignoring deleted file %s", ev.Path)
			continue
		}
		if !s.ingest.Supports(ev.Path) {
			continue
		}
		logger.Debug("File %s: %s", ev.Operation, ev.Path)
		s.ingestFile(ctx, ev.Path)
	}
	return nil
}

func (s *WatchService) ingestFile(ctx context.Context, path string) {
	report, err := s.ingest.Ingest(ctx, path, "", s.opts)
	if err != nil {
		logger.Error("Failed to ingest %s: %v", path, err)
		return
	}
	if report.Skipped {
		logger.Info("%s: skipped (%s)", report.Source, report.Reason)
		return
	}
	logger.Info("%s: %d new chunks", report.Source, report.New)
}

// Command sercha-rag ingests documents into category collections and
// answers questions from them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/watcher/fsnotify"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/extractors"
	"github.com/custodia-labs/sercha-rag/internal/logger"
	"github.com/custodia-labs/sercha-rag/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal; keys may come from the environment or config.toml.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open config: %v\n", err)
		return 1
	}
	prompts, err := file.NewPromptStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open prompts: %v\n", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Warn("Close failed: %v", err)
			}
		}
	}()

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetServiceLoader(func(ctx context.Context) (*cli.Services, error) {
		s, c, err := buildServices(ctx, settingsService, prompts)
		closers = append(closers, c...)
		return s, err
	})

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// buildServices wires the pipeline from the current settings. The returned
// closers are valid even when an error is returned.
func buildServices(
	ctx context.Context, settingsService driving.SettingsService, prompts driven.PromptStore,
) (*cli.Services, []io.Closer, error) {
	var closers []io.Closer

	settings, err := settingsService.Get()
	if err != nil {
		return nil, closers, fmt.Errorf("load settings: %w", err)
	}
	labels, err := settingsService.Categories()
	if err != nil {
		return nil, closers, err
	}

	logger.Section("Initialising")
	models, err := ai.Initialise(settings, prompts)
	if err != nil {
		return nil, closers, err
	}
	closers = append(closers, closerFunc(models.Close))
	for _, w := range models.Warnings {
		logger.Warn("%s", w)
	}

	homeDir, err := file.HomeDir()
	if err != nil {
		return nil, closers, fmt.Errorf("home directory: %w", err)
	}
	backend, err := storage.NewBackend(settings.Store, homeDir, models.EmbeddingService)
	if err != nil {
		return nil, closers, err
	}
	closers = append(closers, backend)
	store := services.NewCollectionStore(backend)
	if _, err := store.Heartbeat(ctx); err != nil {
		return nil, closers, fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, settings.Store.Backend, err)
	}

	registry, err := extractors.NewDefaultRegistry(settings.Ingest.Extractor)
	if err != nil {
		return nil, closers, err
	}
	minChars := settings.Ingest.MinChunkChars
	buildPipeline := func(chunkSize int) (driven.PostProcessorPipeline, error) {
		return postprocessors.BuildDefaultPipeline(chunkSize, minChars)
	}

	ingest := services.NewIngestService(store, models.Classifier, registry, buildPipeline)
	ingest.SetChunkSize(settings.Ingest.ChunkSize)
	if models.Summarizer != nil {
		ingest.SetSummarizer(models.Summarizer, settings.Summarizer.MinLength, settings.Summarizer.MaxLength)
	}

	answer := services.NewAnswerService(store, models.LLMService, driven.ChatOptions{
		Temperature: settings.LLM.Temperature,
		Seed:        settings.LLM.Seed,
	})
	answer.SetPromptStore(models.PromptStore)
	answer.SetNumDocuments(settings.Retrieval.NumDocuments)

	watcher := fsnotify.New(
		fsnotify.WithExtensions(registry.Extensions()...),
		fsnotify.WithDebounce(500*time.Millisecond),
	)
	closers = append(closers, closerFunc(func() { _ = watcher.Stop() }))
	watch := services.NewWatchService(ingest, watcher, driving.IngestOptions{Summarize: settings.Ingest.Summarize})

	logger.Debug("Pipeline ready: %d categories, %s store", labels.Len(), settings.Store.Backend)

	return &cli.Services{
		Answer:       answer,
		Collections:  store,
		Ingest:       ingest,
		Watch:        watch,
		Categories:   labels.Labels(),
		Summarize:    settings.Ingest.Summarize,
		NumDocuments: settings.Retrieval.NumDocuments,
	}, closers, nil
}

// closerFunc adapts a func() to io.Closer.
type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

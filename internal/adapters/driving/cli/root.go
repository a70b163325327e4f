// Package cli provides the cobra command tree for sercha-rag.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Services holds the driving ports used by the pipeline commands.
type Services struct {
	Answer      driving.AnswerService
	Collections driving.CollectionService
	Ingest      driving.IngestService
	Watch       driving.WatchService

	// Categories are the validated category labels; one collection each.
	Categories []string

	// Summarize is the configured default for --summarize.
	Summarize bool

	// NumDocuments is the configured default for -n.
	NumDocuments int
}

// ServiceLoader builds the pipeline services on first use.
type ServiceLoader func(ctx context.Context) (*Services, error)

var (
	version = "dev"
	verbose bool

	pipelineServices *Services
	serviceLoader    ServiceLoader
	settingsService  driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "sercha-rag",
	Short: "Retrieval-augmented question answering over your documents",
	Long: `sercha-rag ingests PDF and text documents, classifies every paragraph
chunk into one of your configured categories, stores the chunks in one
collection per category and answers questions from them with page citations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetServices sets ready-made pipeline services.
func SetServices(s *Services) {
	pipelineServices = s
}

// SetServiceLoader sets the function that builds the pipeline services the
// first time a command needs them. Commands that only touch settings never
// initialise the models or the store.
func SetServiceLoader(fn ServiceLoader) {
	serviceLoader = fn
}

// pipeline returns the pipeline services, loading them on first use.
func pipeline(cmd *cobra.Command) (*Services, error) {
	if pipelineServices != nil {
		return pipelineServices, nil
	}
	if serviceLoader == nil {
		return nil, errors.New("services not configured")
	}
	s, err := serviceLoader(commandContext(cmd))
	if err != nil {
		return nil, fmt.Errorf("initialise: %w", err)
	}
	pipelineServices = s
	return s, nil
}

// openCollections creates or loads every category collection.
func openCollections(cmd *cobra.Command, s *Services, reset bool) error {
	ctx := commandContext(cmd)
	var outcomes []domain.Outcome
	if reset {
		outcomes = s.Collections.Reset(ctx, s.Categories)
	} else {
		outcomes = s.Collections.Open(ctx, s.Categories)
	}

	var errs []error
	for _, o := range outcomes {
		if !o.OK() {
			errs = append(errs, fmt.Errorf("collection %s: %w", o.Name, o.Err))
		}
	}
	return errors.Join(errs...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

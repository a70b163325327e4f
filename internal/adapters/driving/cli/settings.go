package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change categories, model providers, the collection store and
ingestion options. Settings are stored in config.toml in the sercha-rag home
directory ($SERCHA_RAG_HOME or ~/.sercha-rag).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting by its dotted key. Lists such as categories are
comma separated.

Examples:
  sercha-rag settings set categories "Scope_of_Work,Requirements,Technical_Documentation"
  sercha-rag settings set llm.provider openai
  sercha-rag settings set ingest.chunk_size 500`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the embedding and LLM providers are reachable",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Categories]")
	cmd.Printf("  %s\n", strings.Join(settings.Categories, ", "))
	cmd.Println()

	cmd.Println("[Classifier]")
	cmd.Printf("  Provider: %s\n", settings.Classifier.Kind)
	if settings.Classifier.Kind != domain.ClassifierEmbedding {
		cmd.Printf("  Model: %s\n", settings.Classifier.Model)
	}
	cmd.Printf("  Hypothesis: %s\n", settings.Classifier.HypothesisTemplate)
	if settings.Classifier.Kind == domain.ClassifierHuggingFace {
		cmd.Printf("  API Key: %s\n", showKey(settings.Classifier.APIKey))
	}
	cmd.Println()

	cmd.Println("[Summarizer]")
	cmd.Printf("  Provider: %s\n", settings.Summarizer.Kind)
	if settings.Summarizer.Kind == domain.SummarizerHuggingFace {
		cmd.Printf("  Model: %s\n", settings.Summarizer.Model)
		cmd.Printf("  API Key: %s\n", showKey(settings.Summarizer.APIKey))
	}
	cmd.Printf("  Length: %d-%d\n", settings.Summarizer.MinLength, settings.Summarizer.MaxLength)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", showKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	cmd.Printf("  Seed: %d\n", settings.LLM.Seed)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", showKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend)
	if settings.Store.Path != "" {
		cmd.Printf("  Path: %s\n", settings.Store.Path)
	}
	if settings.Store.Backend == domain.StoreWeaviate {
		cmd.Printf("  URL: %s\n", settings.Store.WeaviateURL)
		cmd.Printf("  API Key: %s\n", showKey(settings.Store.WeaviateAPIKey))
	}
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Chunk size: %d\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Summarize: %t\n", settings.Ingest.Summarize)
	cmd.Printf("  Min chunk chars: %d\n", settings.Ingest.MinChunkChars)
	cmd.Printf("  Extractor: %s\n", settings.Ingest.Extractor)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Documents per question: %d\n", settings.Retrieval.NumDocuments)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	value := args[1]
	if strings.HasSuffix(args[0], "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", args[0], value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var errs []error
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("Embedding: %v\n", err)
		errs = append(errs, err)
	} else {
		cmd.Println("Embedding: ok")
	}
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("LLM: %v\n", err)
		errs = append(errs, err)
	} else {
		cmd.Println("LLM: ok")
	}
	return errors.Join(errs...)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func showKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

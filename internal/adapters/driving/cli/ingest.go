package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the category collections",
	Long: `Extracts each file page by page, splits pages into paragraph chunks,
skips chunks already stored in any collection, classifies the rest and
stores them in the collection named after their category.

Ingesting the same file twice stores nothing the second time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("source", "", "source name recorded in metadata (default: file name)")
	ingestCmd.Flags().Bool("summarize", false, "store chunk summaries instead of raw text")
	ingestCmd.Flags().Int("chunk-size", 0, "maximum chunk size in characters (0 = configured default)")
	ingestCmd.Flags().Bool("reset", false, "delete and recreate the collections first")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}

	reset, _ := cmd.Flags().GetBool("reset")         //nolint:errcheck // flag is registered
	source, _ := cmd.Flags().GetString("source")     //nolint:errcheck // flag is registered
	chunkSize, _ := cmd.Flags().GetInt("chunk-size") //nolint:errcheck // flag is registered
	opts := driving.IngestOptions{
		Summarize: summarizeFlag(cmd, s),
		ChunkSize: chunkSize,
	}

	if err := openCollections(cmd, s, reset); err != nil {
		return err
	}

	var errs []error
	for _, path := range args {
		report, err := s.Ingest.Ingest(commandContext(cmd), path, source, opts)
		if err != nil {
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			errs = append(errs, err)
			continue
		}
		printReport(cmd.OutOrStdout(), report)
	}
	return errors.Join(errs...)
}

// summarizeFlag returns --summarize when given, else the configured default.
func summarizeFlag(cmd *cobra.Command, s *Services) bool {
	if cmd.Flags().Changed("summarize") {
		v, _ := cmd.Flags().GetBool("summarize") //nolint:errcheck // flag is registered
		return v
	}
	return s.Summarize
}

func printReport(w io.Writer, r *domain.IngestReport) {
	if r.Skipped {
		fmt.Fprintf(w, "%s: nothing stored (%s)\n", r.Source, r.Reason)
		return
	}

	fmt.Fprintf(w, "%s: %d pages, %d chunks, %d already stored, %d new\n",
		r.Source, r.Pages, r.Chunks, r.Existing, r.New)

	names := make([]string, 0, len(r.PerCollection))
	for name := range r.PerCollection {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, r.PerCollection[name])
	}
}

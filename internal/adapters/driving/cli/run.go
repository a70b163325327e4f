package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Reset the collections, ingest a file and start chatting",
	Long: `Runs the whole flow in one step: the category collections are
recreated empty (unless --keep), the file is ingested and the interactive
chat starts.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("summarize", false, "store chunk summaries instead of raw text")
	runCmd.Flags().Bool("keep", false, "keep existing collections instead of resetting them")
	runCmd.Flags().IntP("num-documents", "n", 0, "context passages per question (0 = configured default)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}

	keep, _ := cmd.Flags().GetBool("keep")      //nolint:errcheck // flag is registered
	k, _ := cmd.Flags().GetInt("num-documents") //nolint:errcheck // flag is registered

	if err := openCollections(cmd, s, !keep); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Parsing document...")
	report, err := s.Ingest.Ingest(commandContext(cmd), args[0], "", driving.IngestOptions{
		Summarize: summarizeFlag(cmd, s),
	})
	if err != nil {
		return fmt.Errorf("ingest %s: %w", args[0], err)
	}
	printReport(out, report)

	return chatLoop(commandContext(cmd), cmd.InOrStdin(), out, s.Answer, k)
}

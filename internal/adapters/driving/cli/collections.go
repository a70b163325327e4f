package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Manage the category collections",
	Long:  `List, reset, query and health-check the category collections.`,
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections with record counts",
	Args:  cobra.NoArgs,
	RunE:  runCollectionsList,
}

var collectionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete and recreate every category collection",
	Args:  cobra.NoArgs,
	RunE:  runCollectionsReset,
}

var collectionsHeartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Check the collection store",
	Args:  cobra.NoArgs,
	RunE:  runCollectionsHeartbeat,
}

var collectionsQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Show the passages most similar to a text",
	Long: `Queries every category collection and prints the global top results,
most similar first. No LLM is involved.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollectionsQuery,
}

func init() {
	collectionsQueryCmd.Flags().IntP("num-documents", "n", 0, "number of results (0 = configured default)")
	collectionsQueryCmd.Flags().Bool("json", false, "output results as JSON")

	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsResetCmd)
	collectionsCmd.AddCommand(collectionsHeartbeatCmd)
	collectionsCmd.AddCommand(collectionsQueryCmd)
	rootCmd.AddCommand(collectionsCmd)
}

func runCollectionsList(cmd *cobra.Command, _ []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}

	collections, err := s.Collections.ListCollections(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(collections) == 0 {
		cmd.Println("No collections. Run 'sercha-rag ingest' to create them.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRECORDS\tCREATED")
	for _, c := range collections {
		created := "-"
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Count, created)
	}
	return tw.Flush()
}

func runCollectionsReset(cmd *cobra.Command, _ []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}
	if err := openCollections(cmd, s, true); err != nil {
		return err
	}
	cmd.Printf("Reset collections: %s\n", strings.Join(s.Categories, ", "))
	return nil
}

func runCollectionsHeartbeat(cmd *cobra.Command, _ []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}

	latency, err := s.Collections.Heartbeat(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("collection store unreachable: %w", err)
	}
	cmd.Printf("Collection store is up (%s)\n", latency.Round(time.Microsecond))
	return nil
}

func runCollectionsQuery(cmd *cobra.Command, args []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}
	if err := openCollections(cmd, s, false); err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("num-documents") //nolint:errcheck // flag is registered
	if k <= 0 {
		k = s.NumDocuments
	}
	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag is registered

	results := s.Collections.QueryAllCollections(commandContext(cmd), args[0], k)

	if asJSON {
		data, err := json.MarshalIndent(toResultJSON(results), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, r := range results {
		cmd.Printf("  [%d] %s - %s p.%d (%.4f)\n", i+1, r.Collection, r.Metadata.Source, r.Metadata.PageNumber, r.Score)
		cmd.Printf("      %s\n", snippet(r.Document, 160))
		cmd.Println()
	}
	return nil
}

// snippet returns text on one line, cut to at most n runes.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

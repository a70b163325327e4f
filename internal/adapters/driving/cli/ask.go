package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question",
	Long: `Retrieves the most similar passages across all category collections
and asks the configured LLM to answer from them, citing pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntP("num-documents", "n", 0, "context passages to retrieve (0 = configured default)")
	askCmd.Flags().Bool("json", false, "output the answer and its context as JSON")
	rootCmd.AddCommand(askCmd)
}

// answerJSON is the JSON form of an answer.
type answerJSON struct {
	Answer  string       `json:"answer"`
	Seconds float64      `json:"seconds"`
	Context []resultJSON `json:"context"`
}

// resultJSON is the JSON form of a retrieved passage.
type resultJSON struct {
	Collection string  `json:"collection"`
	Source     string  `json:"source"`
	Page       int     `json:"page"`
	Score      float64 `json:"score"`
	ID         string  `json:"id"`
	Document   string  `json:"document"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}
	if err := openCollections(cmd, s, false); err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("num-documents") //nolint:errcheck // flag is registered
	asJSON, _ := cmd.Flags().GetBool("json")    //nolint:errcheck // flag is registered

	answer, err := s.Answer.Ask(commandContext(cmd), args[0], k)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(answerJSON{
			Answer:  answer.Text,
			Seconds: answer.Elapsed.Seconds(),
			Context: toResultJSON(answer.Context),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Println(st.Muted.Render(fmt.Sprintf("Total Elapsed Time: %.2f seconds", answer.Elapsed.Seconds())))
	return nil
}

func toResultJSON(results []domain.QueryResult) []resultJSON {
	out := make([]resultJSON, len(results))
	for i, r := range results {
		out[i] = resultJSON{
			Collection: r.Collection,
			Source:     r.Metadata.Source,
			Page:       r.Metadata.PageNumber,
			Score:      r.Score,
			ID:         r.ID,
			Document:   r.Document,
		}
	}
	return out
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Session text printed by the chat loop.
const (
	chatBanner    = "******************INTERACTIVE RAG CHAT START (Stateless)******************"
	chatHelp      = "Enter your query or type 'exit' or 'quit' to end the session."
	chatRule      = "************************************************************************"
	chatPrompt    = "USER QUERY: "
	chatGoodbye   = "Exiting chat. Goodbye! 👋"
	outputHeading = "******************RAG OUTPUT******************"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Starts an interactive question loop over the stored collections.

Every question is answered independently: no conversation history is
carried between turns. Type 'exit' or 'quit', press Ctrl-D or Ctrl-C to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntP("num-documents", "n", 0, "context passages per question (0 = configured default)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	s, err := pipeline(cmd)
	if err != nil {
		return err
	}
	if err := openCollections(cmd, s, false); err != nil {
		return err
	}

	k, err := cmd.Flags().GetInt("num-documents")
	if err != nil {
		return fmt.Errorf("getting num-documents flag: %w", err)
	}
	return chatLoop(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), s.Answer, k)
}

// chatLoop reads questions from in until exit, EOF or cancellation and
// prints each answer with its elapsed time.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, answers driving.AnswerService, k int) error {
	st := stylesFor(out)
	lines := readLines(ctx, in)

	fmt.Fprintln(out)
	fmt.Fprintln(out, st.Title.Render(chatBanner))
	fmt.Fprintln(out, chatHelp)
	fmt.Fprintln(out, st.Muted.Render(chatRule))

	for {
		start := time.Now()
		fmt.Fprint(out, st.Heading.Render(chatPrompt))

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok = <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
		}

		query := strings.TrimSpace(line)
		switch strings.ToLower(query) {
		case "exit", "quit":
			fmt.Fprintln(out, chatGoodbye)
			return nil
		case "":
			continue
		}

		answer, err := answers.Ask(ctx, query, k)
		if err != nil {
			fmt.Fprintln(out, st.Error.Render(fmt.Sprintf("An error occurred during processing: %v", err)))
		} else {
			fmt.Fprintln(out, st.Title.Render(outputHeading))
			fmt.Fprintln(out, answer.Text)
		}

		fmt.Fprintf(out, "Total Elapsed Time: %.2f seconds\n", time.Since(start).Seconds())
		fmt.Fprintln(out, st.Muted.Render(chatRule))
		fmt.Fprintln(out)
	}
}

// readLines scans in on a separate goroutine so a blocked read never
// prevents the loop from noticing cancellation.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Chat in a full-screen terminal interface",
	Long: `Opens a full-screen chat over the stored collections. Questions are
answered independently, as in 'sercha-rag chat'.

Keys: enter asks, ctrl+s shows the passages behind each answer,
pgup/pgdn scroll, ctrl+l clears, esc or ctrl+c quits.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntP("num-documents", "n", 0, "context passages per question (0 = configured default)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
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

	app, err := tui.NewApp(&tui.Ports{
		Answer:      s.Answer,
		Collections: s.Collections,
	}, k)
	if err != nil {
		return err
	}
	return app.WithContext(commandContext(cmd)).Run()
}

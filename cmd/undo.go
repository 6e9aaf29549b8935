package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	undoCount  int
	undoQuiet  bool
	undoBranch string
)

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Remove the last messages from a conversation",
	Long: `Remove the last n messages from a conversation branch.

The previous state is saved to an undo backup branch first, so the
removed messages can always be recovered.

Examples:
  chatlog undo my-project
  chatlog undo my-project --n 3
  chatlog undo my-project --branch experiment`,
	Args: cobra.ExactArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)

	undoCmd.Flags().IntVar(&undoCount, "n", 1, "Number of messages to remove")
	undoCmd.Flags().BoolVar(&undoQuiet, "quiet", false, "Don't print removed messages")
	undoCmd.Flags().StringVar(&undoBranch, "branch", "", "Branch to undo on (default main)")
}

func runUndo(cmd *cobra.Command, args []string) error {
	m, err := openConversation(args[0], undoBranch, false)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Undo(undoCount, undoQuiet); err != nil {
		return fmt.Errorf("failed to undo: %w", err)
	}
	if err := m.Write(true); err != nil {
		return fmt.Errorf("failed to persist conversation: %w", err)
	}

	return nil
}

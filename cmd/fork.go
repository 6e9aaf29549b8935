package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var forkCmd = &cobra.Command{
	Use:   "fork <id> [new-id]",
	Short: "Fork a conversation into a new one",
	Long: `Copy a conversation directory, branches and all, to a new id.

The original conversation is left untouched. Without a new id a
random one is generated.

Examples:
  chatlog fork my-project
  chatlog fork my-project my-project-v2`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFork,
}

func init() {
	rootCmd.AddCommand(forkCmd)
}

func runFork(cmd *cobra.Command, args []string) error {
	newID := ""
	if len(args) > 1 {
		newID = slugify(args[1])
	}
	if newID == "" {
		newID = uuid.NewString()
	}

	m, err := openConversation(args[0], "", false)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Fork(newID); err != nil {
		return fmt.Errorf("failed to fork: %w", err)
	}

	fmt.Printf("✓ Forked conversation: %s\n", m.ID())
	fmt.Printf("  Directory: %s\n", m.Dir())

	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/models"
)

var (
	sendRole   string
	sendBranch string
	sendQuiet  bool
	sendHide   bool
	sendFiles  []string
)

var sendCmd = &cobra.Command{
	Use:   "send <id> <content>",
	Short: "Append a message to a conversation",
	Long: `Append a message to a conversation and persist it immediately.

The message is echoed back unless --quiet is set.

Examples:
  chatlog send my-project "How do I parse JSONL in Go?"
  chatlog send my-project "internal note" --role system --hide
  chatlog send my-project "review this" --files main.go --files util.go`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendRole, "role", "user", "Message role: user|assistant|system")
	sendCmd.Flags().StringVar(&sendBranch, "branch", "", "Branch to append to (default main)")
	sendCmd.Flags().BoolVar(&sendQuiet, "quiet", false, "Don't echo the message")
	sendCmd.Flags().BoolVar(&sendHide, "hide", false, "Hide the message from display")
	sendCmd.Flags().StringSliceVar(&sendFiles, "files", []string{}, "Files referenced by the message")
}

func runSend(cmd *cobra.Command, args []string) error {
	role := models.Role(sendRole)
	if !models.ValidRole(role) {
		return fmt.Errorf("invalid role: %s (must be: user, assistant, system)", sendRole)
	}

	m, err := openConversation(args[0], sendBranch, false)
	if err != nil {
		return err
	}
	defer m.Close()

	msg := models.NewMessage(role, args[1])
	msg.Quiet = sendQuiet
	msg.Hide = sendHide
	msg.Files = sendFiles

	if err := m.Append(msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

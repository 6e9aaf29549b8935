package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/display"
)

var (
	showBranch string
	showHidden bool
	showJSON   bool
	showToon   bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a conversation's messages",
	Long: `Display the messages of a conversation branch.

Hidden messages are skipped unless --show-hidden is set.

Examples:
  chatlog show my-project
  chatlog show my-project --branch experiment
  chatlog show my-project --json
  chatlog show my-project --toon`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showBranch, "branch", "", "Branch to show (default main)")
	showCmd.Flags().BoolVar(&showHidden, "show-hidden", false, "Include hidden messages")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showToon, "toon", false, "Output in LLM-friendly toon format")
}

func runShow(cmd *cobra.Command, args []string) error {
	m, err := openConversation(args[0], showBranch, false)
	if err != nil {
		return err
	}
	defer m.Close()

	msgs := m.Log().Messages()

	if showJSON {
		output, err := json.MarshalIndent(msgs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if showToon {
		output, err := gotoon.Encode(msgs)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	if len(msgs) == 0 {
		fmt.Println("No messages")
		return nil
	}

	fmt.Printf("%s (branch: %s, %d messages)\n\n", m.Name(), m.CurrentBranch(), len(msgs))
	display.PrintMessages(msgs, showHidden)

	return nil
}

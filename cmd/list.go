package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/config"
	"github.com/pders01/chatlog/internal/logstore"
)

var (
	listLimit int
	listAll   bool
	listJSON  bool
	listToon  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Long: `List stored conversations, newest first.

Test and eval conversations are hidden unless --all is set.

Examples:
  chatlog list
  chatlog list --limit 5
  chatlog list --all
  chatlog list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of conversations to show")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include test and eval conversations")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
}

func runList(cmd *cobra.Command, args []string) error {
	metas, err := logstore.ListConversations(config.LogsDir(), listLimit, listAll)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if listJSON {
		output, err := json.MarshalIndent(metas, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if listToon {
		output, err := gotoon.Encode(metas)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	if len(metas) == 0 {
		fmt.Println("No conversations found")
		return nil
	}

	fmt.Printf("Found %d conversation(s):\n\n", len(metas))
	for _, meta := range metas {
		fmt.Printf("  %s\n", meta.Name)
		fmt.Printf("    Modified: %s\n", meta.Modified.Format("2006-01-02 15:04"))
		fmt.Printf("    Messages: %d\n", meta.Messages)
		if meta.Branches > 1 {
			fmt.Printf("    Branches: %d\n", meta.Branches)
		}
		if meta.Workspace != "" {
			fmt.Printf("    Workspace: %s\n", meta.Workspace)
		}
		fmt.Println()
	}

	return nil
}

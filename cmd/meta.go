package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/config"
	"github.com/pders01/chatlog/internal/logstore"
)

var (
	metaJSON bool
	metaToon bool
)

var metaCmd = &cobra.Command{
	Use:   "meta <id>",
	Short: "Show metadata for a conversation",
	Long: `Display the catalog metadata for a single conversation.

Example:
  chatlog meta my-project`,
	Args: cobra.ExactArgs(1),
	RunE: runMeta,
}

func init() {
	rootCmd.AddCommand(metaCmd)

	metaCmd.Flags().BoolVar(&metaJSON, "json", false, "Output as JSON")
	metaCmd.Flags().BoolVar(&metaToon, "toon", false, "Output in LLM-friendly toon format")
}

func runMeta(cmd *cobra.Command, args []string) error {
	metas, err := logstore.Conversations(config.LogsDir())
	if err != nil {
		return fmt.Errorf("failed to scan conversations: %w", err)
	}

	id := args[0]
	for _, meta := range metas {
		if meta.ID != id {
			continue
		}

		if metaJSON {
			output, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		if metaToon {
			output, err := gotoon.Encode(meta)
			if err != nil {
				return fmt.Errorf("failed to encode Toon: %w", err)
			}
			fmt.Println(output)
			return nil
		}

		fmt.Printf("Conversation: %s\n\n", meta.ID)
		fmt.Printf("Name:      %s\n", meta.Name)
		fmt.Printf("Created:   %s\n", meta.Created.Format("2006-01-02 15:04:05"))
		fmt.Printf("Modified:  %s\n", meta.Modified.Format("2006-01-02 15:04:05"))
		fmt.Printf("Messages:  %d\n", meta.Messages)
		fmt.Printf("Branches:  %d\n", meta.Branches)
		if meta.Workspace != "" {
			fmt.Printf("Workspace: %s\n", meta.Workspace)
		}
		fmt.Printf("Path:      %s\n", meta.Path)

		return nil
	}

	return fmt.Errorf("conversation does not exist: %s", filepath.Join(config.LogsDir(), id))
}

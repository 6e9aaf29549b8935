package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
)

var (
	exportBranches bool
	exportToon     bool
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a conversation as a structured document",
	Long: `Export a conversation snapshot: id, display name, messages and the
backing log file. With --branches every branch is included.

Examples:
  chatlog export my-project
  chatlog export my-project --branches
  chatlog export my-project --toon`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportBranches, "branches", false, "Include all branches")
	exportCmd.Flags().BoolVar(&exportToon, "toon", false, "Output in LLM-friendly toon format")
}

func runExport(cmd *cobra.Command, args []string) error {
	m, err := openConversation(args[0], "", false)
	if err != nil {
		return err
	}
	defer m.Close()

	snapshot := m.Snapshot(exportBranches)

	if exportToon {
		output, err := gotoon.Encode(snapshot)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	output, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(output))

	return nil
}

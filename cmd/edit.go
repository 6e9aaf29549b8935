package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/logstore"
)

var editBranch string

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a conversation in your editor",
	Long: `Open the current branch's messages in $EDITOR as a JSONL file and
replace the branch with the edited content.

The previous state is saved to an edit backup branch first.

Example:
  chatlog edit my-project`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editBranch, "branch", "", "Branch to edit (default main)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	m, err := openConversation(args[0], editBranch, false)
	if err != nil {
		return err
	}
	defer m.Close()

	tmpDir, err := os.MkdirTemp("", "chatlog-edit-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpFile := filepath.Join(tmpDir, "conversation.jsonl")
	if err := m.Log().WriteJSONL(tmpFile); err != nil {
		return fmt.Errorf("failed to write editable copy: %w", err)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, tmpFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	newLog, err := logstore.ReadJSONL(tmpFile, 0)
	if err != nil {
		return fmt.Errorf("failed to parse edited log: %w", err)
	}

	if newLog.Equal(m.Log()) {
		fmt.Println("No changes.")
		return nil
	}

	if err := m.Edit(newLog); err != nil {
		return fmt.Errorf("failed to apply edit: %w", err)
	}

	fmt.Printf("✓ Edited %s (%d messages)\n", m.CurrentBranch(), newLog.Len())

	return nil
}

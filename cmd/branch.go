package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var branchFrom string

var branchCmd = &cobra.Command{
	Use:   "branch <id> [name]",
	Short: "List or create conversation branches",
	Long: `Without a name, list the branches of a conversation. With a name,
switch to that branch, creating it from the current branch's messages
when it does not exist yet.

Examples:
  chatlog branch my-project
  chatlog branch my-project experiment
  chatlog branch my-project experiment --from other-branch`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBranch,
}

func init() {
	rootCmd.AddCommand(branchCmd)

	branchCmd.Flags().StringVar(&branchFrom, "from", "", "Branch to start from (default main)")
}

func runBranch(cmd *cobra.Command, args []string) error {
	m, err := openConversation(args[0], branchFrom, false)
	if err != nil {
		return err
	}
	defer m.Close()

	if len(args) == 1 {
		fmt.Printf("Branches of %s:\n", m.ID())
		for _, name := range m.BranchNames() {
			marker := " "
			if name == m.CurrentBranch() {
				marker = "*"
			}
			log, _ := m.BranchLog(name)
			fmt.Printf("  %s %s (%d messages)\n", marker, name, log.Len())
		}
		return nil
	}

	name := args[1]
	existed := false
	for _, b := range m.BranchNames() {
		if b == name {
			existed = true
			break
		}
	}

	if err := m.Branch(name); err != nil {
		return fmt.Errorf("failed to switch branch: %w", err)
	}
	if err := m.Write(true); err != nil {
		return fmt.Errorf("failed to persist branch: %w", err)
	}

	if existed {
		fmt.Printf("✓ Switched to branch: %s\n", name)
	} else {
		fmt.Printf("✓ Created branch: %s (%d messages)\n", name, m.Log().Len())
	}

	return nil
}

package cmd

import (
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
)

var (
	diffBranch string
	diffToon   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <id> <branch>",
	Short: "Show where two branches diverge",
	Long: `Compare the current branch against another branch of the same
conversation, starting from the first message that differs.

Lines prefixed + belong to the current branch, lines prefixed - to
the other branch.

Examples:
  chatlog diff my-project experiment
  chatlog diff my-project experiment --branch other-base`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffBranch, "branch", "", "Base branch to compare from (default main)")
	diffCmd.Flags().BoolVar(&diffToon, "toon", false, "Output in LLM-friendly toon format")
}

func runDiff(cmd *cobra.Command, args []string) error {
	m, err := openConversation(args[0], diffBranch, false)
	if err != nil {
		return err
	}
	defer m.Close()

	if _, ok := m.BranchLog(args[1]); !ok {
		return fmt.Errorf("no branch named %q in %s", args[1], args[0])
	}

	report, diverged := m.Diff(args[1])

	if diffToon {
		output, err := gotoon.Encode(map[string]any{
			"current":  m.CurrentBranch(),
			"other":    args[1],
			"diverged": diverged,
			"report":   report,
		})
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	if !diverged {
		fmt.Println("No divergence.")
		return nil
	}

	fmt.Printf("Divergence between %s and %s:\n\n", m.CurrentBranch(), args[1])
	fmt.Println(report)

	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/config"
	"github.com/pders01/chatlog/internal/logstore"
	"github.com/pders01/chatlog/internal/models"
)

var (
	pruneDryRun bool
	pruneForce  bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old conversations based on retention policy",
	Long: `Remove conversations older than the retention period.

The retention policy is configured in ~/.config/chatlog/config.toml:
  [retention]
  days = 90
  preserve = ["my-project"]

Conversations listed under preserve will never be pruned.

Example:
  chatlog prune              # Show what would be pruned
  chatlog prune --force      # Actually delete conversations`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", true, "Show what would be pruned without deleting")
	pruneCmd.Flags().BoolVar(&pruneForce, "force", false, "Actually delete conversations (overrides dry-run)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	retentionDays := config.GetRetentionDays()
	preserveIDs := config.GetPreserveIDs()

	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	fmt.Printf("Retention policy: %d days\n", retentionDays)
	fmt.Printf("Preserved ids: %v\n", preserveIDs)
	fmt.Printf("Cutoff date: %s\n\n", cutoffDate.Format("2006-01-02"))

	metas, err := logstore.Conversations(config.LogsDir())
	if err != nil {
		return fmt.Errorf("failed to scan conversations: %w", err)
	}

	if len(metas) == 0 {
		fmt.Println("No conversations found")
		return nil
	}

	var toPrune []pruneCandidate
	var toPreserve []pruneCandidate

	for _, meta := range metas {
		candidate := pruneCandidate{
			Meta: meta,
			Age:  time.Since(meta.Modified),
		}

		if config.ShouldPreserve(meta.ID) {
			candidate.Reason = "listed in retention.preserve"
			toPreserve = append(toPreserve, candidate)
			continue
		}

		if meta.Modified.Before(cutoffDate) {
			candidate.Reason = fmt.Sprintf("older than %d days", retentionDays)
			toPrune = append(toPrune, candidate)
		} else {
			candidate.Reason = "within retention period"
			toPreserve = append(toPreserve, candidate)
		}
	}

	if len(toPrune) == 0 {
		fmt.Println("No conversations to prune")
		return nil
	}

	fmt.Printf("Conversations to prune (%d):\n\n", len(toPrune))
	for _, c := range toPrune {
		fmt.Printf("  %s\n", c.Meta.ID)
		fmt.Printf("    Age:    %s\n", formatDuration(c.Age))
		fmt.Printf("    Reason: %s\n", c.Reason)
		fmt.Println()
	}

	if len(toPreserve) > 0 {
		fmt.Printf("Conversations to preserve (%d):\n\n", len(toPreserve))
		for _, c := range toPreserve {
			fmt.Printf("  %s\n", c.Meta.ID)
			fmt.Printf("    Age:    %s\n", formatDuration(c.Age))
			fmt.Printf("    Reason: %s\n", c.Reason)
			fmt.Println()
		}
	}

	if pruneForce && !pruneDryRun {
		fmt.Println("Pruning conversations...")
		for _, c := range toPrune {
			fmt.Printf("  Deleting %s...\n", c.Meta.ID)
			if err := os.RemoveAll(filepath.Dir(c.Meta.Path)); err != nil {
				fmt.Printf("    Error: %v\n", err)
			} else {
				fmt.Printf("    ✓ Deleted\n")
			}
		}
		fmt.Printf("\n✓ Pruned %d conversation(s)\n", len(toPrune))
	} else {
		fmt.Println("\nThis is a dry run. Use --force to actually prune conversations.")
	}

	return nil
}

type pruneCandidate struct {
	Meta   models.ConversationMeta
	Age    time.Duration
	Reason string
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days == 0 {
		return "< 1 day"
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

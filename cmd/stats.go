package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/config"
	"github.com/pders01/chatlog/internal/tokens"
)

var (
	statsJSON  bool
	statsToon  bool
	statsModel string
)

var statsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show conversation statistics",
	Long: `Display statistics about a conversation including:
  - Message counts by role
  - Token usage per branch
  - Branch overview
  - Daily activity

Examples:
  chatlog stats my-project
  chatlog stats my-project --json
  chatlog stats my-project --toon`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output in LLM-friendly toon format")
	statsCmd.Flags().StringVar(&statsModel, "model", "", "Model for token counting (default from config)")
}

type conversationStats struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TotalMessages int             `json:"total_messages"`
	ByRole        map[string]int  `json:"by_role"`
	Tokens        int             `json:"tokens"`
	Branches      []branchStat    `json:"branches"`
	FirstMessage  *time.Time      `json:"first_message,omitempty"`
	LastMessage   *time.Time      `json:"last_message,omitempty"`
	DailyActivity []dailyActivity `json:"daily_activity"`
}

type branchStat struct {
	Name     string `json:"name"`
	Messages int    `json:"messages"`
	Tokens   int    `json:"tokens"`
}

type dailyActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func runStats(cmd *cobra.Command, args []string) error {
	m, err := openConversation(args[0], "", false)
	if err != nil {
		return err
	}
	defer m.Close()

	model := statsModel
	if model == "" {
		model = config.DefaultModel()
	}

	msgs := m.Log().Messages()

	stats := &conversationStats{
		ID:     m.ID(),
		Name:   m.Name(),
		ByRole: make(map[string]int),
	}
	stats.TotalMessages = len(msgs)
	stats.Tokens = tokens.CountMessages(msgs, model)

	byDate := make(map[string]int)
	for _, msg := range msgs {
		stats.ByRole[string(msg.Role)]++

		if stats.FirstMessage == nil || msg.Timestamp.Before(*stats.FirstMessage) {
			t := msg.Timestamp
			stats.FirstMessage = &t
		}
		if stats.LastMessage == nil || msg.Timestamp.After(*stats.LastMessage) {
			t := msg.Timestamp
			stats.LastMessage = &t
		}

		byDate[msg.Timestamp.Format("2006-01-02")]++
	}

	for _, name := range m.BranchNames() {
		log, _ := m.BranchLog(name)
		stats.Branches = append(stats.Branches, branchStat{
			Name:     name,
			Messages: log.Len(),
			Tokens:   tokens.CountMessages(log.Messages(), model),
		})
	}

	for date, count := range byDate {
		stats.DailyActivity = append(stats.DailyActivity, dailyActivity{Date: date, Count: count})
	}
	sort.Slice(stats.DailyActivity, func(i, j int) bool {
		return stats.DailyActivity[i].Date > stats.DailyActivity[j].Date
	})

	if statsJSON {
		output, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if statsToon {
		output, err := gotoon.Encode(stats)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println("Conversation Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Printf("Conversation:   %s\n", stats.Name)
	fmt.Printf("Total Messages: %d\n", stats.TotalMessages)
	fmt.Printf("Tokens (%s): %d\n", model, stats.Tokens)
	if stats.FirstMessage != nil && stats.LastMessage != nil {
		fmt.Printf("Date Range:     %s to %s\n",
			stats.FirstMessage.Format("2006-01-02"),
			stats.LastMessage.Format("2006-01-02"))
	}
	fmt.Println()

	fmt.Println("By Role:")
	for _, role := range []string{"user", "assistant", "system"} {
		if count, ok := stats.ByRole[role]; ok {
			percentage := float64(count) / float64(stats.TotalMessages) * 100
			fmt.Printf("  %-10s %4d  (%.1f%%)\n", role, count, percentage)
		}
	}
	fmt.Println()

	fmt.Println("Branches:")
	for _, bs := range stats.Branches {
		fmt.Printf("  %-25s %4d messages  %6d tokens\n", bs.Name, bs.Messages, bs.Tokens)
	}
	fmt.Println()

	if len(stats.DailyActivity) > 0 {
		fmt.Println("Recent Activity:")
		limit := 7
		if len(stats.DailyActivity) < limit {
			limit = len(stats.DailyActivity)
		}
		for i := 0; i < limit; i++ {
			da := stats.DailyActivity[i]
			bar := ""
			for j := 0; j < da.Count && j < 20; j++ {
				bar += "█"
			}
			fmt.Printf("  %s  %3d  %s\n", da.Date, da.Count, bar)
		}
	}

	return nil
}

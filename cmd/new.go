package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/models"
)

var (
	newName      string
	newWorkspace string
)

var newCmd = &cobra.Command{
	Use:   "new [id]",
	Short: "Create a new conversation",
	Long: `Create a new conversation in the logs directory.

Without an id a random one is generated. The display name and
workspace are stored in the conversation's config.yml.

Examples:
  chatlog new
  chatlog new my-project --name "My Project" --workspace ~/code/my-project`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVar(&newName, "name", "", "Display name for the conversation")
	newCmd.Flags().StringVar(&newWorkspace, "workspace", "", "Workspace directory to associate")
}

func runNew(cmd *cobra.Command, args []string) error {
	id := ""
	if len(args) > 0 {
		id = slugify(args[0])
	}
	if id == "" {
		id = uuid.NewString()
	}

	m, err := openConversation(id, "", true)
	if err != nil {
		return err
	}
	defer m.Close()

	if newName != "" || newWorkspace != "" {
		cfg := models.ChatConfig{
			Name:      newName,
			Workspace: newWorkspace,
		}
		if err := cfg.Save(m.Dir()); err != nil {
			return fmt.Errorf("failed to write chat config: %w", err)
		}
	}

	fmt.Printf("✓ Created conversation: %s\n", m.ID())
	fmt.Printf("  Directory: %s\n", m.Dir())

	return nil
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the chatlog storage and configuration",
	Long: `Create the logs directory and a default configuration file.

This command:
  - Creates the logs root directory if it doesn't exist
  - Creates a default config file if it doesn't exist

Run this once to set up chatlog on a new machine.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logsDir := config.LogsDir()
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	fmt.Printf("✓ Logs directory: %s\n", logsDir)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "chatlog")
	configPath := filepath.Join(configDir, "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := fmt.Sprintf(`[logs]
dir = %q

[lock]
enabled = true

[model]
default = "gpt-4"

[retention]
days = 90
preserve = []

[embeddings]
enabled = true
model = "nomic-embed-text"
ollama_url = "http://localhost:11434"
`, logsDir)

		if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		fmt.Printf("✓ Created default config: %s\n", configPath)
	} else {
		fmt.Printf("Config already exists: %s\n", configPath)
	}

	fmt.Println("\n✓ chatlog initialized successfully!")
	fmt.Println("  You can now use: chatlog new")

	return nil
}

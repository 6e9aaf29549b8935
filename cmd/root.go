package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/chatlog/internal/config"
	"github.com/pders01/chatlog/internal/display"
	"github.com/pders01/chatlog/internal/logstore"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "chatlog",
	Short: "Directory-backed, branchable conversation logs",
	Long: `chatlog stores conversations as append-mostly JSONL logs:
  - one directory per conversation, locked while in use
  - named branches with automatic edit/undo backups
  - optional vector embeddings for semantic search

Every destructive operation first saves the previous state to a
backup branch, so history is never lost.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/chatlog/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "chatlog")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	home, _ := os.UserHomeDir()
	viper.SetDefault("logs.dir", filepath.Join(home, ".local", "share", "chatlog", "logs"))
	viper.SetDefault("lock.enabled", true)
	viper.SetDefault("model.default", "gpt-4")
	viper.SetDefault("retention.days", 90)
	viper.SetDefault("retention.preserve", []string{})
	viper.SetDefault("embeddings.enabled", true)
	viper.SetDefault("embeddings.model", "nomic-embed-text")
	viper.SetDefault("embeddings.ollama_url", "http://localhost:11434")
	viper.SetDefault("search.keyword_weight", 0.3)
	viper.SetDefault("search.semantic_weight", 0.7)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openConversation loads a conversation by id from the configured logs root.
func openConversation(id, branch string, create bool) (*logstore.Manager, error) {
	return logstore.Open(id, logstore.OpenOptions{
		Root:    config.LogsDir(),
		Branch:  branch,
		Create:  create,
		NoLock:  !config.LockEnabled(),
		Printer: display.PrintMessage,
	})
}

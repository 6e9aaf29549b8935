package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/config"
	"github.com/pders01/chatlog/internal/embeddings"
	"github.com/pders01/chatlog/internal/logstore"
	"github.com/pders01/chatlog/internal/ollama"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index [id]",
	Short: "Generate embeddings for semantic search",
	Long: `Generate an embedding vector for each conversation and store it
next to the conversation log. The embedding covers the display name
and the message contents.

Requires Ollama running with the configured embedding model.

Examples:
  chatlog index
  chatlog index my-project
  chatlog index --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVar(&indexForce, "force", false, "Regenerate existing embeddings")
}

func runIndex(cmd *cobra.Command, args []string) error {
	if !config.GetEmbeddingsEnabled() {
		return fmt.Errorf("embeddings are disabled in config")
	}

	ollamaURL := config.GetOllamaURL()
	if !ollama.IsAvailable(ollamaURL) {
		return fmt.Errorf("Ollama is not available at %s", ollamaURL)
	}

	client, err := ollama.NewClient(ollamaURL, config.GetEmbeddingModel())
	if err != nil {
		return fmt.Errorf("failed to create Ollama client: %w", err)
	}

	ctx := context.Background()
	if err := client.CheckModel(ctx); err != nil {
		return err
	}

	metas, err := logstore.Conversations(config.LogsDir())
	if err != nil {
		return fmt.Errorf("failed to scan conversations: %w", err)
	}

	indexed := 0
	skipped := 0
	for _, meta := range metas {
		if len(args) > 0 && meta.ID != args[0] {
			continue
		}

		dir := filepath.Dir(meta.Path)
		embeddingPath := embeddings.PathFor(dir)
		if !indexForce {
			if _, err := os.Stat(embeddingPath); err == nil {
				skipped++
				continue
			}
		}

		if err := indexConversation(ctx, client, meta.Name, meta.Path, embeddingPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to index %s: %v\n", meta.ID, err)
			continue
		}
		fmt.Printf("✓ Indexed %s\n", meta.ID)
		indexed++
	}

	if len(args) > 0 && indexed == 0 && skipped == 0 {
		return fmt.Errorf("conversation not found: %s", args[0])
	}

	fmt.Printf("\n✓ Indexed %d conversation(s), skipped %d\n", indexed, skipped)
	return nil
}

func indexConversation(ctx context.Context, client *ollama.Client, name, logfile, embeddingPath string) error {
	log, err := logstore.ReadJSONL(logfile, 0)
	if err != nil {
		return err
	}

	text := buildEmbeddingText(name, log)
	// nomic-embed-text supports ~8K tokens, roughly 32K chars
	maxChars := 30000
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to embed")
	}

	vec, err := client.Embed(ctx, text)
	if err != nil {
		return err
	}
	if err := embeddings.ValidateEmbedding(vec); err != nil {
		return fmt.Errorf("invalid embedding: %w", err)
	}

	return embeddings.WriteEmbedding(embeddingPath, vec)
}

// buildEmbeddingText constructs the text to be embedded from the display
// name and the message contents
func buildEmbeddingText(name string, log logstore.Log) string {
	var parts []string
	parts = append(parts, "Conversation: "+name)
	for _, msg := range log.Messages() {
		parts = append(parts, string(msg.Role)+": "+msg.Content)
	}
	return strings.Join(parts, "\n\n")
}

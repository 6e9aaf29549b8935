package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/chatlog/internal/config"
	"github.com/pders01/chatlog/internal/embeddings"
	"github.com/pders01/chatlog/internal/logstore"
	"github.com/pders01/chatlog/internal/models"
	"github.com/pders01/chatlog/internal/ollama"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search conversations using hybrid keyword and semantic search",
	Long: `Search through conversation names and message contents.

Combines keyword matching with semantic similarity (if embeddings available).
Automatically uses semantic search when conversations have been indexed.

Example:
  chatlog search "jsonl parsing"

Search modes:
  - Keyword only: When embeddings unavailable or Ollama not running
  - Hybrid: Combines keyword (30%) + semantic (70%) when embeddings available`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results to show")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	queryWords := strings.Fields(strings.ToLower(query))

	metas, err := logstore.UserConversations(config.LogsDir())
	if err != nil {
		return fmt.Errorf("failed to scan conversations: %w", err)
	}

	if len(metas) == 0 {
		fmt.Println("No conversations found")
		return nil
	}

	// Try to generate query embedding for semantic search
	var queryEmbedding []float64
	useSemanticSearch := false

	if config.GetEmbeddingsEnabled() && ollama.IsAvailable(config.GetOllamaURL()) {
		client, err := ollama.NewClient(config.GetOllamaURL(), config.GetEmbeddingModel())
		if err == nil {
			queryEmbedding, err = client.Embed(context.Background(), query)
			if err == nil {
				useSemanticSearch = true
				fmt.Println("Using hybrid search (keyword + semantic)")
			}
		}
	}

	if !useSemanticSearch {
		fmt.Println("Using keyword search only")
	}

	keywordWeight := config.GetKeywordWeight()
	semanticWeight := config.GetSemanticWeight()

	var results []searchResult
	for _, meta := range metas {
		log, err := logstore.ReadJSONL(meta.Path, 0)
		if err != nil {
			continue
		}

		keywordScore := calculateRelevance(queryWords, meta, log)

		var semanticScore float64
		usedSemantic := false

		if useSemanticSearch {
			dir := filepath.Dir(meta.Path)
			vec, err := embeddings.ReadEmbedding(embeddings.PathFor(dir))
			if err == nil {
				similarity, err := embeddings.CosineSimilarity(queryEmbedding, vec)
				if err == nil {
					// Convert similarity from [-1, 1] to [0, 100] for consistency
					semanticScore = (similarity + 1) * 50
					usedSemantic = true
				}
			}
		}

		var finalScore float64
		if usedSemantic {
			// Hybrid: weighted combination
			normalizedKeyword := float64(keywordScore) / 2.0
			if normalizedKeyword > 100 {
				normalizedKeyword = 100
			}
			finalScore = keywordWeight*normalizedKeyword + semanticWeight*semanticScore
		} else {
			finalScore = float64(keywordScore)
		}

		if finalScore > 0 || keywordScore > 0 {
			results = append(results, searchResult{
				Meta:          meta,
				Score:         finalScore,
				KeywordScore:  keywordScore,
				SemanticScore: semanticScore,
				UsedSemantic:  usedSemantic,
				Snippet:       firstMatch(queryWords, log),
			})
		}
	}

	if len(results) == 0 {
		fmt.Println("No conversations match the search query")
		return nil
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	fmt.Printf("\nFound %d matching conversation(s):\n\n", len(results))
	for i, r := range results {
		scoreDisplay := fmt.Sprintf("%.1f", r.Score)
		if r.UsedSemantic {
			scoreDisplay += fmt.Sprintf(" (keyword: %d, semantic: %.1f%%)", r.KeywordScore, r.SemanticScore)
		} else {
			scoreDisplay += " (keyword only)"
		}

		fmt.Printf("%d. %s [score: %s]\n", i+1, r.Meta.Name, scoreDisplay)
		fmt.Printf("   Modified: %s\n", r.Meta.Modified.Format("2006-01-02 15:04"))
		fmt.Printf("   Messages: %d\n", r.Meta.Messages)
		if r.Snippet != "" {
			fmt.Printf("   Match:    %s\n", r.Snippet)
		}
		fmt.Println()
	}

	return nil
}

type searchResult struct {
	Meta          models.ConversationMeta
	Score         float64
	KeywordScore  int
	SemanticScore float64
	UsedSemantic  bool
	Snippet       string
}

func calculateRelevance(queryWords []string, meta models.ConversationMeta, log logstore.Log) int {
	score := 0

	var sb strings.Builder
	for _, msg := range log.Messages() {
		sb.WriteString(strings.ToLower(msg.Content))
		sb.WriteString(" ")
	}
	searchableText := sb.String()

	for _, word := range queryWords {
		count := strings.Count(searchableText, word)
		score += count * 10

		// Bonus points for matches in the display name
		if strings.Contains(strings.ToLower(meta.Name), word) {
			score += 50
		}
	}

	return score
}

// firstMatch returns a shortened view of the first message containing any
// query word
func firstMatch(queryWords []string, log logstore.Log) string {
	for _, msg := range log.Messages() {
		content := strings.ToLower(msg.Content)
		for _, word := range queryWords {
			if strings.Contains(content, word) {
				return models.Shorten(strings.TrimSpace(msg.Content), 80)
			}
		}
	}
	return ""
}

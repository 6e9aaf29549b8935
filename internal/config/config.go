package config

import (
	"github.com/spf13/viper"
)

// LogsDir returns the root directory holding all conversations.
func LogsDir() string {
	return viper.GetString("logs.dir")
}

// LockEnabled reports whether conversation directories should be locked.
func LockEnabled() bool {
	return viper.GetBool("lock.enabled")
}

// DefaultModel returns the model name used for token accounting.
func DefaultModel() string {
	return viper.GetString("model.default")
}

// GetRetentionDays returns the retention period in days
func GetRetentionDays() int {
	return viper.GetInt("retention.days")
}

// GetPreserveIDs returns conversation ids that should be preserved indefinitely
func GetPreserveIDs() []string {
	return viper.GetStringSlice("retention.preserve")
}

// ShouldPreserve checks if a conversation with the given id should be preserved
func ShouldPreserve(id string) bool {
	for _, preserved := range GetPreserveIDs() {
		if id == preserved {
			return true
		}
	}
	return false
}

// GetEmbeddingsEnabled reports whether semantic indexing is enabled
func GetEmbeddingsEnabled() bool {
	return viper.GetBool("embeddings.enabled")
}

// GetEmbeddingModel returns the embedding model name
func GetEmbeddingModel() string {
	return viper.GetString("embeddings.model")
}

// GetOllamaURL returns the Ollama API endpoint
func GetOllamaURL() string {
	return viper.GetString("embeddings.ollama_url")
}

// GetKeywordWeight returns the keyword weight for hybrid search
func GetKeywordWeight() float64 {
	return viper.GetFloat64("search.keyword_weight")
}

// GetSemanticWeight returns the semantic weight for hybrid search
func GetSemanticWeight() float64 {
	return viper.GetFloat64("search.semantic_weight")
}

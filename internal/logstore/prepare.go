package logstore

import (
	"log/slog"

	"github.com/pders01/chatlog/internal/models"
)

// Enricher injects context (file contents, retrieved documents) into a
// message sequence before it is sent to a model.
type Enricher func(msgs []models.Message, workspace string) []models.Message

// Reducer shrinks a message sequence to fit a model's context budget.
type Reducer func(msgs []models.Message) []models.Message

// TokenCounter reports the token count of a message sequence for a model.
type TokenCounter func(msgs []models.Message, model string) int

// Prepare runs the stored log through the external enrichment and reduction
// collaborators. Either collaborator may be nil, in which case that stage is
// skipped. Token savings from reduction are logged when a counter is given.
func Prepare(msgs []models.Message, workspace, model string, enrich Enricher, reduce Reducer, count TokenCounter) []models.Message {
	if enrich != nil {
		msgs = enrich(msgs, workspace)
	}
	if reduce == nil {
		return msgs
	}
	reduced := reduce(msgs)
	if count != nil {
		from := count(msgs, model)
		to := count(reduced, model)
		if from != to {
			slog.Info("reduced log", "from_tokens", from, "to_tokens", to)
		}
	}
	if len(reduced) != len(msgs) {
		slog.Info("limited log", "from_messages", len(msgs), "to_messages", len(reduced))
	}
	return reduced
}

// Package tokens counts message tokens for context budgeting.
package tokens

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pders01/chatlog/internal/models"
)

// FallbackEncoding is used when no encoding is registered for a model.
const FallbackEncoding = "cl100k_base"

var (
	encCache   sync.Map // model -> *tiktoken.Tiktoken
	warnedOnce sync.Once
)

func encodingFor(model string) *tiktoken.Tiktoken {
	if cached, ok := encCache.Load(model); ok {
		return cached.(*tiktoken.Tiktoken)
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(FallbackEncoding)
	}
	if err != nil {
		warnedOnce.Do(func() {
			slog.Warn("token encoding unavailable, falling back to byte estimate", "model", model, "err", err)
		})
		enc = nil
	}
	encCache.Store(model, enc)
	return enc
}

// Count returns the token count of text for model. When the encoding cannot
// be initialized it falls back to a rough byte-based estimate.
func Count(text, model string) int {
	enc := encodingFor(model)
	if enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// CountMessages sums the token counts of all message contents.
func CountMessages(msgs []models.Message, model string) int {
	total := 0
	for _, msg := range msgs {
		total += Count(msg.Content, model)
	}
	return total
}

package ai

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
)

// TokenCounter approximates prompt size with a tiktoken encoding. Backends
// without a native token-count endpoint (Ollama, OpenAI chat completions)
// share one instance.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCounter() (*TokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TokenCounter{enc: enc}, nil
}

// Count sums encoded content length plus a small per-message overhead for
// role framing.
func (c *TokenCounter) Count(messages []adapter.Message) int {
	total := 0
	for _, m := range messages {
		total += len(c.enc.Encode(m.Content, nil, nil)) + 4
	}
	return total
}

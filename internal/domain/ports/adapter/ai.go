package adapter

import "context"

// Message is a chat message in provider-neutral shape.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Sampling carries the decode parameters forwarded to the backend. MaxTokens
// is the output budget and is adjusted per call by the repetition policy.
type Sampling struct {
	Temperature   float64
	TopK          int
	TopP          float64
	RepeatPenalty float64
	RepeatLastN   int
	Mirostat      int
	MirostatEta   float64
	MirostatTau   float64
	MaxTokens     int
}

// ChatRequest is one complete inference request: the ordered message list
// (system entry included) plus sampling configuration.
type ChatRequest struct {
	Model    string
	Messages []Message
	Sampling Sampling
}

// AIServiceAdapter is the port for the LLM collaborator. The core never
// interprets provider-specific fields beyond the single reply string.
type AIServiceAdapter interface {
	ListModels(ctx context.Context) ([]string, error)

	// CountTokens returns prompt tokens for the provided messages
	// (provider-specific counting; best-effort when exact isn't available).
	CountTokens(ctx context.Context, model string, messages []Message) (int, error)

	// Chat returns only the assistant text.
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThomasBalaban/namiv3/internal/domain"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AIServiceAdapter = (*OllamaAdapter)(nil)

// OllamaAdapter implements adapter.AIServiceAdapter against a local Ollama
// server's /api/chat endpoint (non-streaming).
type OllamaAdapter struct {
	base    string // e.g., http://localhost:11434
	model   string
	client  *http.Client
	counter *TokenCounter
}

func NewOllamaAdapter(baseURL, model string, counter *TokenCounter) (*OllamaAdapter, error) {
	if baseURL == "" {
		return nil, errors.New("ollama base url empty")
	}
	if model == "" {
		return nil, errors.New("ollama model empty")
	}
	return &OllamaAdapter{
		base:    baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
		counter: counter,
	}, nil
}

func (o *OllamaAdapter) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.base+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return []string{o.model}, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return []string{o.model}, nil
	}
	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return []string{o.model}, nil
	}
	out := make([]string, 0, len(payload.Models))
	for _, m := range payload.Models {
		if m.Name != "" {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 {
		out = []string{o.model}
	}
	return out, nil
}

func (o *OllamaAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	if o.counter == nil {
		return 0, errors.New("no token counter configured")
	}
	return o.counter.Count(messages), nil
}

func (o *OllamaAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	// Ollama takes decode parameters in an "options" object.
	body := struct {
		Model    string            `json:"model"`
		Messages []adapter.Message `json:"messages"`
		Stream   bool              `json:"stream"`
		Options  map[string]any    `json:"options"`
	}{
		Model:    model,
		Messages: req.Messages,
		Stream:   false,
		Options: map[string]any{
			"temperature":    req.Sampling.Temperature,
			"top_k":          req.Sampling.TopK,
			"top_p":          req.Sampling.TopP,
			"repeat_penalty": req.Sampling.RepeatPenalty,
			"repeat_last_n":  req.Sampling.RepeatLastN,
			"mirostat":       req.Sampling.Mirostat,
			"mirostat_eta":   req.Sampling.MirostatEta,
			"mirostat_tau":   req.Sampling.MirostatTau,
			"num_predict":    req.Sampling.MaxTokens,
		},
	}

	b, _ := json.Marshal(body)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama http %d", resp.StatusCode)
	}

	var payload struct {
		Message adapter.Message `json:"message"`
		Done    bool            `json:"done"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Message.Content == "" {
		return "", domain.ErrNoReply
	}
	return payload.Message.Content, nil
}

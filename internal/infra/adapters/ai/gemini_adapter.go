package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/ThomasBalaban/namiv3/internal/domain"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel}, nil
}

func (g *GeminiAdapter) ListModels(ctx context.Context) ([]string, error) {
	models := g.client.Models.All(ctx)
	var out []string
	for m := range models {
		if m.Name != "" {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 && g.defaultModel != "" {
		out = []string{g.defaultModel}
	}
	return out, nil
}

func (g *GeminiAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	contents := toGenAIHistory(messages)
	resp, err := g.client.Models.CountTokens(ctx, modelOrDefault(model, g.defaultModel), contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func (g *GeminiAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", errors.New("gemini: no messages")
	}
	history := toGenAIHistory(req.Messages[:len(req.Messages)-1])

	cfg := &genai.GenerateContentConfig{}
	if req.Sampling.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.Sampling.MaxTokens)
	}
	if req.Sampling.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Sampling.Temperature))
	}
	if req.Sampling.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(req.Sampling.TopP))
	}
	if req.Sampling.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(req.Sampling.TopK))
	}

	chat, err := g.client.Chats.Create(ctx, modelOrDefault(req.Model, g.defaultModel), cfg, history)
	if err != nil {
		return "", err
	}

	last := req.Messages[len(req.Messages)-1]
	if strings.ToLower(last.Role) != "user" {
		return "", errors.New("gemini: last message must be from user")
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last.Content})
	if err != nil {
		return "", err
	}
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			return t, nil
		}
	}
	return "", domain.ErrNoReply
}

func toGenAIHistory(msgs []adapter.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model":
			role = genai.RoleModel
		case "system":
			// Gemini has no separate "system" role in chat history; carry the
			// instruction as a user turn.
			role = genai.RoleUser
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}

package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/ThomasBalaban/namiv3/internal/domain"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.AIServiceAdapter via the official SDK's
// Chat Completions API. Mirostat knobs have no OpenAI equivalent and are
// ignored; repeat_penalty maps onto frequency_penalty.
type OpenAIAdapter struct {
	client  openai.Client
	model   string
	counter *TokenCounter
}

func NewOpenAIAdapter(apiKey, model string, counter *TokenCounter) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		counter: counter,
	}, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{o.model}, nil
}

func (o *OpenAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	if o.counter == nil {
		return 0, errors.New("no token counter configured")
	}
	return o.counter.Count(messages), nil
}

func (o *OpenAIAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch strings.ToLower(m.Role) {
		case "system":
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	}
	if req.Sampling.Temperature > 0 {
		params.Temperature = openai.Float(req.Sampling.Temperature)
	}
	if req.Sampling.TopP > 0 {
		params.TopP = openai.Float(req.Sampling.TopP)
	}
	if req.Sampling.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.Sampling.MaxTokens))
	}
	if req.Sampling.RepeatPenalty > 1 {
		// OpenAI clamps frequency_penalty to [-2, 2].
		fp := req.Sampling.RepeatPenalty - 1
		if fp > 2 {
			fp = 2
		}
		params.FrequencyPenalty = openai.Float(fp)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	for _, c := range completion.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", domain.ErrNoReply
}

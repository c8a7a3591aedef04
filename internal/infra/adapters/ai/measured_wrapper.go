package ai

import (
	"context"
	"time"

	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
	"github.com/ThomasBalaban/namiv3/internal/infra/metrics"
)

// Compile-time check
var _ adapter.AIServiceAdapter = (*measuredAI)(nil)

type measuredAI struct {
	inner    adapter.AIServiceAdapter
	provider string
}

// NewMeasuredAI wraps an adapter with latency/failure metrics.
func NewMeasuredAI(inner adapter.AIServiceAdapter, provider string) adapter.AIServiceAdapter {
	return &measuredAI{inner: inner, provider: provider}
}

func (m *measuredAI) ListModels(ctx context.Context) ([]string, error) {
	return m.inner.ListModels(ctx)
}

func (m *measuredAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return m.inner.CountTokens(ctx, model, messages)
}

func (m *measuredAI) Chat(ctx context.Context, req adapter.ChatRequest) (string, error) {
	start := time.Now()
	reply, err := m.inner.Chat(ctx, req)
	metrics.ObserveAICall(m.provider, req.Model, float64(time.Since(start).Milliseconds()), err == nil)
	return reply, err
}

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/ThomasBalaban/namiv3/internal/domain/model"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
)

// ---- Fakes ----

type fakeAI struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	lastReq adapter.ChatRequest
	budgets []int
}

func (f *fakeAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{"fake-model"}, nil
}

func (f *fakeAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return len(messages), nil
}

func (f *fakeAI) Chat(ctx context.Context, req adapter.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	f.budgets = append(f.budgets, req.Sampling.MaxTokens)
	if f.err != nil {
		return "", f.err
	}
	if f.reply == "" {
		return "ok", nil
	}
	return f.reply, nil
}

// memProfileRepo is a small in-memory implementation used by unit tests.
type memProfileRepo struct {
	mu      sync.Mutex
	store   map[string]*model.UserProfile
	loadErr error
	appends int
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{store: make(map[string]*model.UserProfile)}
}

func (m *memProfileRepo) Load(ctx context.Context, username string) (*model.UserProfile, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[username]
	if !ok {
		p = model.NewUserProfile(username)
		m.store[username] = p
	}
	cp := *p
	cp.Conversation = append([]model.StoredMessage(nil), p.Conversation...)
	return &cp, nil
}

func (m *memProfileRepo) Append(ctx context.Context, username string, userTurn, assistantTurn model.StoredMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[username]
	if !ok {
		p = model.NewUserProfile(username)
		m.store[username] = p
	}
	userTurn.Role = model.RoleUser
	assistantTurn.Role = model.RoleAssistant
	p.Conversation = append(p.Conversation, userTurn, assistantTurn)
	m.appends++
	return nil
}

func (m *memProfileRepo) MarkUnsafe(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[username]
	if !ok {
		p = model.NewUserProfile(username)
		m.store[username] = p
	}
	p.FlaggedUnsafe = true
	return nil
}

type memChannelRepo struct {
	mu      sync.Mutex
	entries map[string][]model.StoredMessage
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{entries: make(map[string][]model.StoredMessage)}
}

func (m *memChannelRepo) Load(ctx context.Context, channel string) ([]model.StoredMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.StoredMessage(nil), m.entries[channel]...), nil
}

func (m *memChannelRepo) Record(ctx context.Context, channel string, entry model.StoredMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[channel] = append(m.entries[channel], entry)
	return nil
}

// phraseClassifier flags any text containing one of its phrases.
type phraseClassifier struct {
	phrases []string
}

func (c *phraseClassifier) Classify(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range c.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

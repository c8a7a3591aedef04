// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ThomasBalaban/namiv3/internal/domain"
	"github.com/ThomasBalaban/namiv3/internal/domain/model"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/repository"
	"github.com/ThomasBalaban/namiv3/internal/infra/logging"
	"github.com/ThomasBalaban/namiv3/internal/infra/metrics"
)

// Surface identifies where a message came from.
type Surface string

const (
	SurfaceConsole Surface = "console"
	SurfaceChannel Surface = "channel"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// ChatUseCase is the conversation engine. Respond returns the reply text, or
// an empty string when the trigger gate decided the message deserves none.
// Only corrupt durable records escalate as errors; an LLM failure degrades to
// the configured fallback reply.
type ChatUseCase interface {
	Respond(ctx context.Context, surface Surface, speaker, text string) (string, error)
}

// ChatConfig is the static configuration of the engine.
type ChatConfig struct {
	BotName   string
	Nickname  string
	Channel   string // shared-chat channel name
	Model     string
	Sampling  adapter.Sampling
	Retention model.RetentionPolicy

	// Repetition policy: each consecutive identical message from the same
	// speaker removes BudgetStep output tokens, floored at MinBudget.
	BudgetStep int
	MinBudget  int

	FallbackReply string
}

type chatUC struct {
	cfg        ChatConfig
	profiles   repository.ProfileRepository
	channelLog repository.ChannelLogRepository
	ai         adapter.AIServiceAdapter
	safety     adapter.SafetyClassifier
	mood       MoodUseCase
	censor     *Censor
	log        *zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// session owns one conversation window. Each session processes its turns
// serially under its own lock; distinct sessions run concurrently.
type session struct {
	mu      sync.Mutex
	surface Surface
	window  *model.Window

	lastSpeaker string
	lastText    string
	repeats     int
}

func NewChatUseCase(
	cfg ChatConfig,
	profiles repository.ProfileRepository,
	channelLog repository.ChannelLogRepository,
	ai adapter.AIServiceAdapter,
	safety adapter.SafetyClassifier,
	mood MoodUseCase,
	censor *Censor,
	log *zerolog.Logger,
) *chatUC {
	if cfg.MinBudget <= 0 {
		cfg.MinBudget = 16
	}
	if cfg.BudgetStep <= 0 {
		cfg.BudgetStep = 25
	}
	if censor == nil {
		censor = NewCensor(nil)
	}
	return &chatUC{
		cfg:        cfg,
		profiles:   profiles,
		channelLog: channelLog,
		ai:         ai,
		safety:     safety,
		mood:       mood,
		censor:     censor,
		log:        log,
		sessions:   make(map[string]*session),
	}
}

func (c *chatUC) Respond(ctx context.Context, surface Surface, speaker, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrInvalidArgument
	}
	if speaker == "" {
		speaker = "anonymous"
	}
	ctx = logging.WithSurface(logging.WithUsername(ctx, speaker), string(surface))
	log := logging.With(ctx, c.log)
	defer logging.TraceDuration(log, "chat.Respond")()
	metrics.IncMessage(string(surface))

	// Safety state updates before anything can drop the message.
	if c.safety.Classify(text) {
		if err := c.profiles.MarkUnsafe(ctx, speaker); err != nil {
			log.Error().Err(err).Msg("mark unsafe failed")
			if errors.Is(err, domain.ErrCorruptRecord) {
				return "", err
			}
		} else {
			metrics.IncSafetyFlag()
			log.Info().Msg("user flagged unsafe")
		}
	}

	// Trigger gate: the shared surface only answers direct mentions, but the
	// message still lands in the channel transcript.
	if surface == SurfaceChannel && !c.mentioned(text) {
		if err := c.channelLog.Record(ctx, c.cfg.Channel, model.StoredMessage{
			Role:    model.RoleUser,
			Content: speaker + ": " + text,
		}); err != nil {
			return "", err
		}
		metrics.IncTriggerDrop(string(surface))
		log.Debug().Msg("no mention, recorded without reply")
		return "", nil
	}

	sess, err := c.sessionFor(ctx, surface, speaker)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return c.respondLocked(ctx, log, sess, speaker, text)
}

func (c *chatUC) respondLocked(ctx context.Context, log *zerolog.Logger, sess *session, speaker, text string) (string, error) {
	if speaker == sess.lastSpeaker && text == sess.lastText {
		sess.repeats++
	} else {
		sess.repeats = 0
	}
	sess.lastSpeaker, sess.lastText = speaker, text

	content := text
	if sess.surface == SurfaceChannel {
		content = speaker + ": " + text
	}

	// The next prompt assembly picks up the mood current right now; prior
	// window content is never rewritten retroactively.
	sess.window.SetSystem(model.NewSystemMessage(c.mood.SystemPrompt()))
	if sess.window.Append(model.NewUserMessage(speaker, content)) {
		metrics.IncWindowTrim()
	}

	req := adapter.ChatRequest{
		Model:    c.cfg.Model,
		Messages: toAdapterMessages(sess.window.Messages()),
		Sampling: c.cfg.Sampling,
	}
	req.Sampling.MaxTokens = c.outputBudget(sess.repeats)

	reply, err := c.ai.Chat(ctx, req)
	if err != nil {
		// Degrade to the fallback; the half-turn is never persisted.
		log.Warn().Err(err).Msg("llm call failed")
		metrics.IncReply(string(sess.surface), "fallback")
		return c.cfg.FallbackReply, nil
	}
	reply = c.censor.Apply(reply)

	sess.window.Append(model.NewAssistantMessage(reply))

	if err := c.persistTurn(ctx, sess.surface, speaker, content, reply); err != nil {
		log.Error().Err(err).Msg("persist turn failed")
		if errors.Is(err, domain.ErrCorruptRecord) {
			return reply, err
		}
	}
	metrics.IncReply(string(sess.surface), "ok")
	return reply, nil
}

// persistTurn writes the user/assistant pair to the speaker's durable record
// and, on the shared surface, to the channel transcript as well.
func (c *chatUC) persistTurn(ctx context.Context, surface Surface, speaker, content, reply string) error {
	if surface == SurfaceChannel {
		if err := c.channelLog.Record(ctx, c.cfg.Channel, model.StoredMessage{Role: model.RoleUser, Content: content}); err != nil {
			return err
		}
		if err := c.channelLog.Record(ctx, c.cfg.Channel, model.StoredMessage{Role: model.RoleAssistant, Content: reply}); err != nil {
			return err
		}
	}
	return c.profiles.Append(ctx, speaker,
		model.StoredMessage{Role: model.RoleUser, Content: content},
		model.StoredMessage{Role: model.RoleAssistant, Content: reply},
	)
}

func (c *chatUC) outputBudget(repeats int) int {
	budget := c.cfg.Sampling.MaxTokens - c.cfg.BudgetStep*repeats
	if budget < c.cfg.MinBudget {
		budget = c.cfg.MinBudget
	}
	return budget
}

func (c *chatUC) mentioned(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, strings.ToLower(c.cfg.Nickname)) ||
		strings.Contains(lower, strings.ToLower(c.cfg.BotName))
}

// sessionFor returns the owning session for a message, creating and seeding
// it from the durable record on first contact.
func (c *chatUC) sessionFor(ctx context.Context, surface Surface, speaker string) (*session, error) {
	key := "user:" + speaker
	if surface == SurfaceChannel {
		key = "channel:" + c.cfg.Channel
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[key]; ok {
		return s, nil
	}

	window := model.NewWindow(
		model.NewSystemMessage(c.mood.SystemPrompt()),
		c.cfg.Retention,
		c.cfg.BotName, c.cfg.Nickname,
	)

	// Replay the durable record so the window resumes where the last process
	// left off. Load creates-then-reloads when no record exists yet.
	var stored []model.StoredMessage
	if surface == SurfaceChannel {
		entries, err := c.channelLog.Load(ctx, c.cfg.Channel)
		if err != nil {
			return nil, fmt.Errorf("load channel %s: %w", c.cfg.Channel, err)
		}
		stored = entries
	} else {
		profile, err := c.profiles.Load(ctx, speaker)
		if err != nil {
			return nil, fmt.Errorf("load profile %s: %w", speaker, err)
		}
		stored = profile.Conversation
	}
	for _, m := range stored {
		switch m.Role {
		case model.RoleAssistant:
			window.Append(model.NewAssistantMessage(m.Content))
		case model.RoleUser:
			window.Append(model.NewUserMessage("", m.Content))
		}
	}

	s := &session{surface: surface, window: window}
	c.sessions[key] = s
	return s, nil
}

func toAdapterMessages(msgs []model.Message) []adapter.Message {
	out := make([]adapter.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, adapter.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ThomasBalaban/namiv3/internal/domain/model"
	"github.com/ThomasBalaban/namiv3/internal/usecase"
)

const moodCommandPrefix = "set mood to "

// BotFacade glues the input surfaces to the conversation engine. Keep the
// methods returning plain strings so surfaces just print or send them.
type BotFacade struct {
	chat        usecase.ChatUseCase
	mood        usecase.MoodUseCase
	botName     string
	consoleUser string
	log         *zerolog.Logger
}

func NewBotFacade(chat usecase.ChatUseCase, mood usecase.MoodUseCase, botName, consoleUser string, log *zerolog.Logger) *BotFacade {
	return &BotFacade{
		chat:        chat,
		mood:        mood,
		botName:     botName,
		consoleUser: consoleUser,
		log:         log,
	}
}

// HandleConsoleLine processes one interactive line. Reserved commands are
// intercepted here and never reach the model: "exit" terminates, and
// "set mood to <x>" transitions the mood with a local acknowledgement only.
func (b *BotFacade) HandleConsoleLine(ctx context.Context, line string) (reply string, quit bool, err error) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	switch {
	case trimmed == "":
		return "", false, nil
	case lower == "exit":
		return "", true, nil
	case strings.HasPrefix(lower, moodCommandPrefix):
		newMood := strings.TrimSpace(trimmed[len(moodCommandPrefix):])
		b.mood.SetMood(model.Mood(strings.ToLower(newMood)))
		b.log.Info().Str("mood", newMood).Msg("mood updated")
		return fmt.Sprintf("Mood updated to: %s", newMood), false, nil
	}

	reply, err = b.chat.Respond(ctx, usecase.SurfaceConsole, b.consoleUser, trimmed)
	return reply, false, err
}

// HandleChatMessage processes one shared-chat event. An empty reply means
// the message was recorded but not answered. Replies are addressed to the
// originating speaker.
func (b *BotFacade) HandleChatMessage(ctx context.Context, speaker, text string) (string, error) {
	// Never answer our own messages echoed back by the platform.
	if strings.EqualFold(speaker, b.botName) {
		return "", nil
	}
	reply, err := b.chat.Respond(ctx, usecase.SurfaceChannel, speaker, text)
	if reply == "" {
		return "", err
	}
	return fmt.Sprintf("@%s %s", speaker, reply), err
}

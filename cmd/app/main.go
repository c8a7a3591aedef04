// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ThomasBalaban/namiv3/internal/application"
	"github.com/ThomasBalaban/namiv3/internal/config"
	"github.com/ThomasBalaban/namiv3/internal/domain/model"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
	aiAdapters "github.com/ThomasBalaban/namiv3/internal/infra/adapters/ai"
	"github.com/ThomasBalaban/namiv3/internal/infra/adapters/twitch"
	"github.com/ThomasBalaban/namiv3/internal/infra/console"
	"github.com/ThomasBalaban/namiv3/internal/infra/logging"
	"github.com/ThomasBalaban/namiv3/internal/infra/metrics"
	"github.com/ThomasBalaban/namiv3/internal/infra/safety"
	"github.com/ThomasBalaban/namiv3/internal/infra/store/jsonfile"
	"github.com/ThomasBalaban/namiv3/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop AI fallback, console logs)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Storage ----
	profileRepo, err := jsonfile.NewProfileRepo(cfg.Storage.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("profile store")
	}
	channelRepo, err := jsonfile.NewChannelRepo(cfg.Storage.Dir, model.ChannelPolicy{
		Cap:  cfg.Retention.ChannelCap,
		Keep: cfg.Retention.ChannelKeep,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("channel store")
	}

	// ---- AI adapter (Ollama -> OpenAI -> Gemini) ----
	counter, err := aiAdapters.NewTokenCounter()
	if err != nil {
		logger.Fatal().Err(err).Msg("token counter")
	}
	byProvider := map[string]adapter.AIServiceAdapter{}
	if cfg.AI.OllamaURL != "" {
		a, err := aiAdapters.NewOllamaAdapter(cfg.AI.OllamaURL, cfg.AI.Model, counter)
		if err != nil {
			logger.Fatal().Err(err).Msg("ollama adapter")
		}
		byProvider["ollama"] = aiAdapters.NewMeasuredAI(a, "ollama")
		logger.Info().Str("base", cfg.AI.OllamaURL).Str("model", cfg.AI.Model).Msg("ai adapter: ollama")
	}
	if cfg.AI.OpenAIKey != "" {
		a, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.Model, counter)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		byProvider["openai"] = aiAdapters.NewMeasuredAI(a, "openai")
		logger.Info().Str("model", cfg.AI.Model).Msg("ai adapter: openai")
	}
	if cfg.AI.GeminiKey != "" {
		a, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		byProvider["gemini"] = aiAdapters.NewMeasuredAI(a, "gemini")
		logger.Info().Str("model", cfg.AI.Model).Msg("ai adapter: gemini")
	}

	var ai adapter.AIServiceAdapter
	switch {
	case len(byProvider) > 1:
		ai = aiAdapters.NewMultiAIAdapter(cfg.AI.Provider, byProvider)
	case len(byProvider) == 1:
		for _, a := range byProvider {
			ai = a
		}
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("no ai provider configured, using noop adapter")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.ollama_url, ai.openai_key or ai.gemini_key in %s", *cfgPath)
	}

	// ---- Use cases ----
	persona := usecase.PersonaFromConfig(cfg.Bot, cfg.Persona)
	moodUC := usecase.NewMoodUseCase(persona, model.Mood(cfg.Bot.DefaultMood))
	censor := usecase.NewCensor(cfg.Persona.BannedWords)
	classifier := safety.NewLexical()

	chatUC := usecase.NewChatUseCase(
		usecase.ChatConfig{
			BotName:  cfg.Bot.Name,
			Nickname: cfg.Bot.Nickname,
			Channel:  cfg.Twitch.Channel,
			Model:    cfg.AI.Model,
			Sampling: adapter.Sampling{
				Temperature:   cfg.AI.Temperature,
				TopK:          cfg.AI.TopK,
				TopP:          cfg.AI.TopP,
				RepeatPenalty: cfg.AI.RepeatPenalty,
				RepeatLastN:   cfg.AI.RepeatLastN,
				Mirostat:      cfg.AI.Mirostat,
				MirostatEta:   cfg.AI.MirostatEta,
				MirostatTau:   cfg.AI.MirostatTau,
				MaxTokens:     cfg.AI.MaxTokens,
			},
			Retention: model.RetentionPolicy{
				MaxMessages:  cfg.Retention.WindowMax,
				KeepMessages: cfg.Retention.WindowKeep,
				SalientQuota: cfg.Retention.SalientQuota,
			},
			BudgetStep:    cfg.Repetition.BudgetStep,
			MinBudget:     cfg.Repetition.MinBudget,
			FallbackReply: cfg.Bot.FallbackReply,
		},
		profileRepo, channelRepo, ai, classifier, moodUC, censor, logger,
	)

	// ---- Facade ----
	facade := application.NewBotFacade(chatUC, moodUC, cfg.Bot.Name, cfg.Bot.ConsoleUser, logger)

	// ---- Admin server (health + metrics) ----
	admin := metrics.NewAdminServer(cfg.Admin.Port)
	go func() {
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server stopped")
		}
	}()
	defer admin.Close()

	// ---- Twitch surface ----
	if cfg.Twitch.Enabled {
		client := twitch.New(cfg.Twitch, facade, logger)
		go func() {
			if err := client.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("twitch surface stopped")
			}
		}()
	}

	// ---- Signals ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		logger.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	}()

	// ---- Console surface (foreground) ----
	ui := console.New(facade, os.Stdin, os.Stdout, cfg.Bot.Name, logger)
	if err := ui.Run(ctx); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("console surface stopped")
	}
}

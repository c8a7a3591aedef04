// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Name          string `yaml:"name"`     // full bot name, e.g. "PeepingNami"
	Nickname      string `yaml:"nickname"` // short trigger name, e.g. "Nami"
	DefaultMood   string `yaml:"default_mood"`
	ConsoleUser   string `yaml:"console_user"` // username attributed to console input
	FallbackReply string `yaml:"fallback_reply"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	Dir string `yaml:"dir"` // root for user profiles and channel transcripts
}

type AIConfig struct {
	Provider  string `yaml:"provider"` // ollama | openai | gemini | multi (empty = first configured)
	OllamaURL string `yaml:"ollama_url"`
	OpenAIKey string `yaml:"openai_key"`
	GeminiKey string `yaml:"gemini_key"`
	GeminiURL string `yaml:"gemini_url"`
	Model     string `yaml:"model"`

	MaxTokens     int     `yaml:"max_tokens"`
	Temperature   float64 `yaml:"temperature"`
	TopK          int     `yaml:"top_k"`
	TopP          float64 `yaml:"top_p"`
	RepeatPenalty float64 `yaml:"repeat_penalty"`
	RepeatLastN   int     `yaml:"repeat_last_n"`
	Mirostat      int     `yaml:"mirostat"`
	MirostatEta   float64 `yaml:"mirostat_eta"`
	MirostatTau   float64 `yaml:"mirostat_tau"`
}

type RetentionConfig struct {
	WindowMax    int `yaml:"window_max"`    // non-system turns before a trim
	WindowKeep   int `yaml:"window_keep"`   // non-system turns after a trim
	SalientQuota int `yaml:"salient_quota"` // recent salient turns kept preferentially
	ChannelCap   int `yaml:"channel_cap"`   // transcript entries before halving
	ChannelKeep  int `yaml:"channel_keep"`  // transcript entries kept after halving
}

type RepetitionConfig struct {
	BudgetStep int `yaml:"budget_step"` // output tokens removed per repeat
	MinBudget  int `yaml:"min_budget"`  // floor, never zero
}

type TwitchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Channel  string `yaml:"channel"`
	Username string `yaml:"username"`
	Token    string `yaml:"token"` // IRC oauth token, without the "oauth:" prefix
}

// PersonaConfig overrides pieces of the built-in persona; empty fields keep
// the defaults. Moods maps a mood name to its prompt fragment.
type PersonaConfig struct {
	Personality    string            `yaml:"personality"`
	Rules          string            `yaml:"rules"`
	CreatorDetails string            `yaml:"creator_details"`
	Moods          map[string]string `yaml:"moods"`
	BannedWords    []string          `yaml:"banned_words"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Log        LogConfig        `yaml:"log"`
	Admin      AdminConfig      `yaml:"admin"`
	Storage    StorageConfig    `yaml:"storage"`
	AI         AIConfig         `yaml:"ai"`
	Retention  RetentionConfig  `yaml:"retention"`
	Repetition RepetitionConfig `yaml:"repetition"`
	Twitch     TwitchConfig     `yaml:"twitch"`
	Persona    PersonaConfig    `yaml:"persona"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, applies defaults and validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Bot.Name == "" {
		c.Bot.Name = "PeepingNami"
	}
	if c.Bot.Nickname == "" {
		c.Bot.Nickname = "Nami"
	}
	if c.Bot.DefaultMood == "" {
		c.Bot.DefaultMood = "happy"
	}
	if c.Bot.ConsoleUser == "" {
		c.Bot.ConsoleUser = "anonymous"
	}
	if c.Bot.FallbackReply == "" {
		c.Bot.FallbackReply = "Something went wrong, please try again later."
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "./conversations"
	}
	if c.AI.OllamaURL == "" && c.AI.OpenAIKey == "" && c.AI.GeminiKey == "" {
		c.AI.OllamaURL = "http://localhost:11434"
	}
	if c.AI.Model == "" {
		c.AI.Model = "dolphin-llama3:70b"
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = 120
	}
	if c.AI.Temperature <= 0 {
		c.AI.Temperature = 0.8
	}
	if c.AI.TopK <= 0 {
		c.AI.TopK = 60
	}
	if c.AI.TopP <= 0 {
		c.AI.TopP = 0.85
	}
	if c.AI.RepeatPenalty <= 0 {
		c.AI.RepeatPenalty = 3
	}
	if c.AI.RepeatLastN <= 0 {
		c.AI.RepeatLastN = 30
	}
	if c.AI.Mirostat == 0 {
		c.AI.Mirostat = 2
	}
	if c.AI.MirostatEta <= 0 {
		c.AI.MirostatEta = 0.3
	}
	if c.AI.MirostatTau <= 0 {
		c.AI.MirostatTau = 6
	}
	if c.Retention.WindowMax <= 0 {
		c.Retention.WindowMax = 30
	}
	if c.Retention.WindowKeep <= 0 {
		c.Retention.WindowKeep = 20
	}
	if c.Retention.SalientQuota <= 0 {
		c.Retention.SalientQuota = 7
	}
	if c.Retention.ChannelCap <= 0 {
		c.Retention.ChannelCap = 80
	}
	if c.Retention.ChannelKeep <= 0 {
		c.Retention.ChannelKeep = 40
	}
	if c.Repetition.BudgetStep <= 0 {
		c.Repetition.BudgetStep = 25
	}
	if c.Repetition.MinBudget <= 0 {
		c.Repetition.MinBudget = 16
	}
	if c.Admin.Port <= 0 {
		c.Admin.Port = 9180
	}
}

func (c *Config) Validate() error {
	if c.Retention.WindowKeep > c.Retention.WindowMax {
		return errors.New("retention.window_keep must not exceed retention.window_max")
	}
	if c.Retention.ChannelKeep > c.Retention.ChannelCap {
		return errors.New("retention.channel_keep must not exceed retention.channel_cap")
	}
	if c.Twitch.Enabled {
		if c.Twitch.Channel == "" {
			return errors.New("twitch.channel is required when twitch.enabled")
		}
		if c.Twitch.Username == "" || c.Twitch.Token == "" {
			return errors.New("twitch.username and twitch.token are required when twitch.enabled")
		}
	}
	return nil
}

// Package assistant – config.go defines all configuration structures for
// the Layla assistant.
package assistant

import (
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels/discord"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/completion"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/enrich"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/presence"
)

// Config holds all assistant configuration.
type Config struct {
	// Name is the assistant name, used as the history speaker label and
	// the prompt's closing cue.
	Name string `yaml:"name"`

	// Instructions is the base system prompt.
	Instructions string `yaml:"instructions"`

	// ImageInstructions is appended to Instructions when an image caption
	// is present, telling the model how to use the caption block.
	ImageInstructions string `yaml:"image_instructions"`

	// Trigger configures response triggering.
	Trigger TriggerConfig `yaml:"trigger"`

	// History configures the per-user conversation log.
	History HistoryConfig `yaml:"history"`

	// Chunk configures response splitting.
	Chunk ChunkConfig `yaml:"chunk"`

	// Providers configures the completion providers.
	Providers ProvidersConfig `yaml:"providers"`

	// Caption configures the image captioning enricher.
	Caption enrich.CaptionConfig `yaml:"caption"`

	// Search configures the web search enricher.
	Search enrich.SearchConfig `yaml:"search"`

	// Transcript configures the video-transcript enricher.
	Transcript enrich.TranscriptConfig `yaml:"transcript"`

	// Discord is the Discord channel config.
	Discord discord.Config `yaml:"discord"`

	// Activation is the active-channel store config.
	Activation ActivationConfig `yaml:"activation"`

	// Presence configures status rotation.
	Presence presence.Config `yaml:"presence"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// TriggerConfig configures response triggering.
type TriggerConfig struct {
	// Words are substrings that activate the bot anywhere in a message.
	Words []string `yaml:"words"`

	// AllowDM enables responses in direct messages. Runtime-toggleable
	// via /toggledm.
	AllowDM bool `yaml:"allow_dm"`
}

// HistoryConfig configures the conversation log.
type HistoryConfig struct {
	// MaxTurns is the per-user history cap.
	MaxTurns int `yaml:"max_turns"`
}

// ChunkConfig configures response splitting.
type ChunkConfig struct {
	// MaxLength is the per-chunk character budget.
	MaxLength int `yaml:"max_length"`
}

// ProvidersConfig configures the completion gateway.
type ProvidersConfig struct {
	// Primary is the non-streaming provider tried first.
	Primary completion.ProviderConfig `yaml:"primary"`

	// Secondary is the streaming fallback provider.
	Secondary completion.ProviderConfig `yaml:"secondary"`

	// Apology overrides the fixed text sent when both providers fail.
	Apology string `yaml:"apology"`
}

// ActivationConfig configures the active-channel store.
type ActivationConfig struct {
	// Path is the sqlite database file path.
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the log format ("json", "text").
	Format string `yaml:"format"`
}

// DefaultConfig returns the default assistant configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "Layla",
		Instructions: "[System: You are Layla, a helpful conversational assistant with " +
			"internet access and real-time information. You can describe images through " +
			"a built-in image-to-text step. Respond in a human, conversational way and " +
			"use Markdown formatting where it helps readability.]",
		ImageInstructions: "[System: Image context provided. Captions come from two " +
			"models: OCR for text in the image and general scene description, which may " +
			"be unstable. If the OCR caption contains a question, answer it; otherwise " +
			"respond to the scene.]",
		Trigger: TriggerConfig{
			AllowDM: true,
		},
		History: HistoryConfig{
			MaxTurns: 10,
		},
		Chunk: ChunkConfig{
			MaxLength: DefaultChunkSize,
		},
		Providers: ProvidersConfig{
			Primary: completion.ProviderConfig{
				BaseURL:        "https://api.openai.com/v1",
				Model:          "gpt-4o-mini",
				TimeoutSeconds: 120,
			},
			Secondary: completion.ProviderConfig{
				Model:          "gpt-3.5-turbo",
				TimeoutSeconds: 120,
			},
		},
		Caption: enrich.CaptionConfig{
			Enabled: true,
			Backends: []enrich.CaptionBackend{
				{Name: "ocr", URL: "https://api-inference.huggingface.co/models/microsoft/trocr-base-printed"},
				{Name: "scene", URL: "https://api-inference.huggingface.co/models/nlpconnect/vit-gpt2-image-captioning"},
			},
			TimeoutSeconds: 30,
		},
		Search: enrich.SearchConfig{
			Enabled: true,
			Limit:   2,
		},
		Transcript: enrich.TranscriptConfig{
			Enabled:  true,
			MaxChars: 6000,
		},
		Discord: discord.DefaultConfig(),
		Activation: ActivationConfig{
			Path: "./data/layla.db",
		},
		Presence: presence.Config{
			Statuses: []string{"Genshin Impact"},
			Schedule: "0 * * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

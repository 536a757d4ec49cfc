package model

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the complete process configuration. It is loaded once at startup
// and not modified afterwards.
type Config struct {
	Telegram     TelegramConfig     `mapstructure:"telegram" yaml:"telegram"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	LLM          LLMConfig          `mapstructure:"llm" yaml:"llm"`
	Verification VerificationConfig `mapstructure:"verification" yaml:"verification"`
	Limits       LimitsConfig       `mapstructure:"limits" yaml:"limits"`
	Formats      FormatsConfig      `mapstructure:"formats" yaml:"formats"`
	Storage      StorageConfig      `mapstructure:"storage" yaml:"storage"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit" yaml:"rate_limit"`
	Log          LogConfig          `mapstructure:"log" yaml:"log"`
	Proxy        ProxyConfig        `mapstructure:"proxy" yaml:"proxy"`
}

// TelegramConfig configures the chat transport
type TelegramConfig struct {
	Token      string `mapstructure:"token" yaml:"token,omitempty"`
	Mode       string `mapstructure:"mode" yaml:"mode"` // polling or webhook
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url,omitempty"`
	Debug      bool   `mapstructure:"debug" yaml:"debug"`
}

// ServerConfig configures the health and webhook HTTP server
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// LLMConfig configures the analysis backend
type LLMConfig struct {
	Provider  string `mapstructure:"provider" yaml:"provider"` // gemini, openai, anthropic, ollama
	Model     string `mapstructure:"model" yaml:"model"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout   int    `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	Workers   int    `mapstructure:"workers" yaml:"workers"`
}

// VerificationConfig configures the fact-verification service
type VerificationConfig struct {
	URL           string `mapstructure:"url" yaml:"url"`
	APIKey        string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Timeout       int    `mapstructure:"timeout" yaml:"timeout"`               // seconds
	HealthTimeout int    `mapstructure:"health_timeout" yaml:"health_timeout"` // seconds
}

// LimitsConfig holds per-modality size ceilings in megabytes
type LimitsConfig struct {
	MaxFileSizeMB  int `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
	MaxImageSizeMB int `mapstructure:"max_image_size_mb" yaml:"max_image_size_mb"`
	MaxVideoSizeMB int `mapstructure:"max_video_size_mb" yaml:"max_video_size_mb"`
	MaxAudioSizeMB int `mapstructure:"max_audio_size_mb" yaml:"max_audio_size_mb"`
}

// FormatsConfig lists accepted MIME types. Only documents are gated; other
// media go to the analysis backend as sent.
type FormatsConfig struct {
	Document []string `mapstructure:"document" yaml:"document"`
}

// StorageConfig configures temporary downloads
type StorageConfig struct {
	TempDir string `mapstructure:"temp_dir" yaml:"temp_dir"`
}

// RateLimitConfig configures the per-user inbound throttle
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
	IdleTTL           int     `mapstructure:"idle_ttl" yaml:"idle_ttl"` // seconds
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text or json
	File   string `mapstructure:"file" yaml:"file,omitempty"`
}

// ProxyConfig configures outbound HTTP proxies
type ProxyConfig struct {
	HTTPProxy  string `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy string `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy    string `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Telegram: TelegramConfig{
			Mode: "polling",
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    ":8080",
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  120,
			Workers:  3,
		},
		Verification: VerificationConfig{
			Timeout:       60,
			HealthTimeout: 5,
		},
		Limits: LimitsConfig{
			MaxFileSizeMB:  20,
			MaxImageSizeMB: 10,
			MaxVideoSizeMB: 50,
			MaxAudioSizeMB: 20,
		},
		Formats: FormatsConfig{
			Document: []string{
				"application/pdf",
				"text/plain",
				"application/msword",
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			},
		},
		Storage: StorageConfig{
			TempDir: "./temp_downloads",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 0.5,
			Burst:             3,
			IdleTTL:           600,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}

// Validate checks the settings required to run the bot
func (c Config) Validate() error {
	var errs []error

	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token is required"))
	}
	switch strings.ToLower(c.Telegram.Mode) {
	case "polling":
	case "webhook":
		if c.Telegram.WebhookURL == "" {
			errs = append(errs, errors.New("telegram.webhook_url is required in webhook mode"))
		}
		if !c.Server.Enabled {
			errs = append(errs, errors.New("server.enabled must be true in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("telegram.mode must be polling or webhook, got %q", c.Telegram.Mode))
	}

	errs = append(errs, c.ValidateBackends()...)
	return errors.Join(errs...)
}

// ValidateBackends checks the analysis and verification settings. It is
// shared by commands that do not need the chat transport.
func (c Config) ValidateBackends() []error {
	var errs []error

	if c.LLM.APIKey == "" && !strings.EqualFold(c.LLM.Provider, "ollama") {
		errs = append(errs, errors.New("llm.api_key is required"))
	}
	if c.Verification.URL == "" {
		errs = append(errs, errors.New("verification.url is required"))
	}
	if c.Verification.APIKey == "" {
		errs = append(errs, errors.New("verification.api_key is required"))
	}
	if c.Limits.MaxFileSizeMB <= 0 || c.Limits.MaxImageSizeMB <= 0 ||
		c.Limits.MaxVideoSizeMB <= 0 || c.Limits.MaxAudioSizeMB <= 0 {
		errs = append(errs, errors.New("limits must be positive"))
	}
	if c.Storage.TempDir == "" {
		errs = append(errs, errors.New("storage.temp_dir is required"))
	}

	return errs
}

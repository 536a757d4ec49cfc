package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ppiankov/factbot/internal/model"
)

var (
	// ErrUnsupportedMedia is returned when a provider cannot accept the attached payload
	ErrUnsupportedMedia = errors.New("media type not supported by provider")

	// ErrUnknownProvider is returned by NewProvider for unrecognized names
	ErrUnknownProvider = errors.New("unknown LLM provider")

	// ErrEmptyResponse is returned when the backend produced no text
	ErrEmptyResponse = errors.New("empty response from provider")
)

// Provider defines the interface for analysis backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate issues a single completion call for a prompt and optional media payload
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool

	// Close releases client resources
	Close() error
}

// Media is a binary payload with its declared media type
type Media struct {
	MIMEType string
	Data     []byte
}

// IsImage reports whether the payload is an image
func (m *Media) IsImage() bool {
	return m != nil && strings.HasPrefix(m.MIMEType, "image/")
}

// GenerateRequest contains the input for one completion call
type GenerateRequest struct {
	Prompt string

	// Media is optional; nil for text-only prompts
	Media *Media

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the completion text
type GenerateResponse struct {
	Text       string
	Model      string
	TokensUsed int

	// Truncated is set when the answer stopped at the output token limit
	Truncated bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout per request in seconds
	Timeout int

	// MaxTokens caps the response; zero means no cap where the backend allows it
	MaxTokens int

	Proxy model.ProxyConfig
}

// ConfigFromModel converts the process configuration to an llm.Config
func ConfigFromModel(cfg model.LLMConfig, proxy model.ProxyConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
		Proxy:     proxy,
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout <= 0 {
		return fallback
	}
	return time.Duration(c.Timeout) * time.Second
}

// maxTokens returns the output cap. Zero leaves the backend's own limit.
func (c Config) maxTokens(req GenerateRequest, fallback int) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return fallback
}

func (c Config) model(req GenerateRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

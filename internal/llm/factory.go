package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider creates a new analysis backend based on configuration
func NewProvider(ctx context.Context, config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "gemini", "google", "":
		return NewGeminiProvider(ctx, config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("%w: %s (supported: gemini, openai, anthropic, ollama)", ErrUnknownProvider, config.Provider)
	}
}

package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/factbot/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  error
	}{
		{"openai", Config{Provider: "openai", APIKey: "k"}, "openai", nil},
		{"claude alias", Config{Provider: "Claude", APIKey: "k"}, "anthropic", nil},
		{"ollama", Config{Provider: "ollama", Model: "llava"}, "ollama", nil},
		{"unknown", Config{Provider: "watson"}, "", ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.config)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			defer func() { _ = p.Close() }()
			if p.Name() != tt.wantName {
				t.Errorf("Expected provider %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

func TestNewProvider_GeminiRequiresKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "gemini"}); err == nil {
		t.Fatal("Expected error for missing Gemini API key")
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.DefaultConfig().LLM, model.ProxyConfig{HTTPSProxy: "http://p:1"})
	if cfg.Provider != "gemini" || cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Unexpected provider/model: %s/%s", cfg.Provider, cfg.Model)
	}
	if cfg.Timeout != 120 {
		t.Errorf("Expected 120s timeout, got %d", cfg.Timeout)
	}
	if cfg.Proxy.HTTPSProxy != "http://p:1" {
		t.Errorf("Expected proxy to be carried over, got %q", cfg.Proxy.HTTPSProxy)
	}
	if cfg.MaxTokens != 0 {
		t.Errorf("Expected no default output cap, got %d", cfg.MaxTokens)
	}
}

func TestConfig_MaxTokens(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		req      GenerateRequest
		fallback int
		want     int
	}{
		{"unset leaves backend limit", Config{}, GenerateRequest{}, 0, 0},
		{"unset uses fallback", Config{}, GenerateRequest{}, 8192, 8192},
		{"configured", Config{MaxTokens: 4000}, GenerateRequest{}, 8192, 4000},
		{"request wins", Config{MaxTokens: 4000}, GenerateRequest{MaxTokens: 100}, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.maxTokens(tt.req, tt.fallback); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/ppiankov/factbot/internal/util"
)

// AnthropicProvider implements the Provider interface for Anthropic Claude models.
// Only image payloads are accepted.
type AnthropicProvider struct {
	client *anthropic.Client
	config Config
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(util.NewHTTPClient(0, config.Proxy)),
	}
	if config.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(config.BaseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(config.APIKey, opts...),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable sends a minimal message to confirm the key and model are accepted
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(p.config.model(GenerateRequest{}, string(anthropic.ModelClaude3Haiku20240307))),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent("ping")},
			},
		},
		MaxTokens: 1,
	})
	return err == nil
}

// Generate issues one Messages API call with the prompt and optional image
func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Media != nil && !req.Media.IsImage() {
		return nil, fmt.Errorf("anthropic: %w: %s", ErrUnsupportedMedia, req.Media.MIMEType)
	}

	modelName := p.config.model(req, string(anthropic.ModelClaude3Haiku20240307))

	content := []anthropic.MessageContent{anthropic.NewTextMessageContent(req.Prompt)}
	if req.Media != nil {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				req.Media.MIMEType,
				base64.StdEncoding.EncodeToString(req.Media.Data),
			),
		))
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(120*time.Second))
	defer cancel()

	resp, err := p.client.CreateMessages(ctxWithTimeout, anthropic.MessagesRequest{
		Model:     anthropic.Model(modelName),
		Messages:  []anthropic.Message{{Role: anthropic.RoleUser, Content: content}},
		MaxTokens: p.config.maxTokens(req, 8192),
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Text != nil {
			sb.WriteString(*c.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(sb.String()),
		Model:      modelName,
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
		Truncated:  resp.StopReason == anthropic.MessagesStopReasonMaxTokens,
	}, nil
}

// Close is a no-op for the HTTP client
func (p *AnthropicProvider) Close() error {
	return nil
}

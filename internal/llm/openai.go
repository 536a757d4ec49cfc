package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/factbot/internal/util"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI models.
// Only image payloads are accepted; they are sent as data URLs.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(0, config.Proxy)

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Generate issues one chat completion with the prompt and optional image
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Media != nil && !req.Media.IsImage() {
		return nil, fmt.Errorf("openai: %w: %s", ErrUnsupportedMedia, req.Media.MIMEType)
	}

	modelName := p.config.model(req, openai.GPT4oMini)

	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Media != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.Media.MIMEType, base64.StdEncoding.EncodeToString(req.Media.Data))
		userMsg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL,
				Detail: openai.ImageURLDetailAuto,
			}},
		}
	} else {
		userMsg.Content = req.Prompt
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(120*time.Second))
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You extract verifiable factual claims from content and answer with a single JSON object.",
			},
			userMsg,
		},
		MaxTokens:   p.config.maxTokens(req, 0),
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      modelName,
		TokensUsed: resp.Usage.TotalTokens,
		Truncated:  resp.Choices[0].FinishReason == openai.FinishReasonLength,
	}, nil
}

// Close is a no-op for the HTTP client
func (p *OpenAIProvider) Close() error {
	return nil
}

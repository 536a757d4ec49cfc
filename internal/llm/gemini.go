package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements the Provider interface for Google Gemini models.
// It accepts image, audio, video and document payloads inline.
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that the configured model can be described with the API key
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.GenerativeModel(p.config.model(GenerateRequest{}, "gemini-2.5-flash")).Info(ctx)
	return err == nil
}

// Generate issues one GenerateContent call with the prompt and optional inline blob
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	modelName := p.config.model(req, "gemini-2.5-flash")

	gm := p.client.GenerativeModel(modelName)
	gm.SetTemperature(0.2)
	if limit := p.config.maxTokens(req, 0); limit > 0 {
		gm.SetMaxOutputTokens(int32(limit))
	}
	gm.ResponseMIMEType = "application/json"

	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Media != nil {
		parts = append(parts, genai.Blob{MIMEType: req.Media.MIMEType, Data: req.Media.Data})
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(120*time.Second))
	defer cancel()

	resp, err := gm.GenerateContent(ctxWithTimeout, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	cand := resp.Candidates[0]

	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	if sb.Len() == 0 {
		if cand.FinishReason != genai.FinishReasonStop {
			return nil, fmt.Errorf("%w: finish reason %v", ErrEmptyResponse, cand.FinishReason)
		}
		return nil, ErrEmptyResponse
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &GenerateResponse{
		Text:       sb.String(),
		Model:      modelName,
		TokensUsed: tokens,
		Truncated:  cand.FinishReason == genai.FinishReasonMaxTokens,
	}, nil
}

// Close releases the underlying gRPC/REST client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

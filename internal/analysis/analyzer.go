package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ppiankov/factbot/internal/llm"
	"github.com/ppiankov/factbot/internal/model"
	"github.com/ppiankov/factbot/internal/worker"
)

// Analyzer turns one unit of user content into an AnalyzedContent using a
// generative backend. Backend calls run on a shared bounded pool.
type Analyzer struct {
	provider llm.Provider
	pool     *worker.Pool
	logger   *slog.Logger
}

// New creates an Analyzer. The pool must already be started.
func New(provider llm.Provider, pool *worker.Pool, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		provider: provider,
		pool:     pool,
		logger:   logger.With("component", "analysis", "provider", provider.Name()),
	}
}

// AnalyzeText extracts claims from free text. It never fails: when the
// backend call fails the text itself becomes the only claim.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, userID string) *model.AnalyzedContent {
	a.logger.Info("analyzing text", "user_id", userID, "length", len(text))

	content := model.NewAnalyzedContent(model.ContentTypeText, userID)
	content.ExtractedText = text

	raw, err := a.generate(ctx, generateJob{provider: a.provider, prompt: textPrompt(text)})
	if err != nil {
		a.logger.Error("text analysis failed, using input as claim", "user_id", userID, "error", err)
		content.Claims = []string{text}
		return content
	}

	c := a.parse(raw, userID)
	content.Summary = c.Summary
	content.Claims = c.claims()
	content.ClaimType = model.ParseClaimType(c.ClaimType)
	content.Language = c.Language
	return content
}

// AnalyzeImage extracts text and claims from an image file
func (a *Analyzer) AnalyzeImage(ctx context.Context, path, userID string) (*model.AnalyzedContent, error) {
	a.logger.Info("analyzing image", "user_id", userID, "path", path)

	c, err := a.analyzeFile(ctx, path, imageMediaType(path), imagePrompt(), userID)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	content := model.NewAnalyzedContent(model.ContentTypeImage, userID)
	content.ExtractedText = c.ExtractedText
	content.Summary = c.Summary
	content.Claims = c.claims()
	content.ClaimType = model.ParseClaimType(c.ClaimType)
	return content, nil
}

// AnalyzeVideo transcribes a video file and extracts claims
func (a *Analyzer) AnalyzeVideo(ctx context.Context, path, userID string) (*model.AnalyzedContent, error) {
	a.logger.Info("analyzing video", "user_id", userID, "path", path)

	content, err := a.analyzeMedia(ctx, model.ContentTypeVideo, path, videoPrompt(), userID)
	if err != nil {
		return nil, fmt.Errorf("analyze video: %w", err)
	}
	return content, nil
}

// AnalyzeAudio transcribes an audio file and extracts claims
func (a *Analyzer) AnalyzeAudio(ctx context.Context, path, userID string) (*model.AnalyzedContent, error) {
	a.logger.Info("analyzing audio", "user_id", userID, "path", path)

	content, err := a.analyzeMedia(ctx, model.ContentTypeAudio, path, audioPrompt(), userID)
	if err != nil {
		return nil, fmt.Errorf("analyze audio: %w", err)
	}
	return content, nil
}

// ExtractFromURL asks the backend to read the page at url. Nothing is
// fetched locally.
func (a *Analyzer) ExtractFromURL(ctx context.Context, url, userID string) (*model.AnalyzedContent, error) {
	a.logger.Info("extracting from url", "user_id", userID, "url", url)

	raw, err := a.generate(ctx, generateJob{provider: a.provider, prompt: urlPrompt(url)})
	if err != nil {
		return nil, fmt.Errorf("extract from url: %w", err)
	}

	c := a.parse(raw, userID)
	content := model.NewAnalyzedContent(model.ContentTypeLink, userID)
	content.ExtractedText = c.ExtractedText
	content.Summary = c.Summary
	content.Claims = c.claims()
	content.SourceInfo = url
	return content, nil
}

func (a *Analyzer) analyzeMedia(ctx context.Context, ct model.ContentType, path, prompt, userID string) (*model.AnalyzedContent, error) {
	c, err := a.analyzeFile(ctx, path, MediaTypeForPath(path), prompt, userID)
	if err != nil {
		return nil, err
	}

	content := model.NewAnalyzedContent(ct, userID)
	content.ExtractedText = c.Transcription
	content.Summary = c.Summary
	content.Claims = c.claims()
	content.ClaimType = model.ParseClaimType(c.ClaimType)
	return content, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, path, mimeType, prompt, userID string) (completion, error) {
	raw, err := a.generate(ctx, generateJob{
		provider: a.provider,
		prompt:   prompt,
		path:     path,
		mimeType: mimeType,
	})
	if err != nil {
		return completion{}, err
	}
	return a.parse(raw, userID), nil
}

func (a *Analyzer) parse(raw, userID string) completion {
	c, ok := parseCompletion(raw)
	if !ok {
		a.logger.Warn("unparsable backend answer", "user_id", userID, "answer_len", len(raw))
	}
	return c
}

// generate runs one backend call on the pool
func (a *Analyzer) generate(ctx context.Context, job generateJob) (string, error) {
	res, err := a.pool.Run(ctx, job)
	if err != nil {
		return "", fmt.Errorf("schedule backend call: %w", err)
	}
	if err := res.GetError(); err != nil {
		return "", err
	}
	gr := res.(*generateResult)
	if gr.truncated {
		a.logger.Warn("backend answer stopped at the output token limit", "answer_len", len(gr.text))
	}
	return gr.text, nil
}

// generateJob reads the optional file and issues the completion call.
// Both are blocking, so both happen on a pool worker.
type generateJob struct {
	provider llm.Provider
	prompt   string
	path     string
	mimeType string
}

type generateResult struct {
	text      string
	truncated bool
	err       error
}

func (r *generateResult) GetError() error {
	return r.err
}

func (j generateJob) Execute(ctx context.Context) worker.Result {
	req := llm.GenerateRequest{Prompt: j.prompt}

	if j.path != "" {
		data, err := os.ReadFile(j.path)
		if err != nil {
			return &generateResult{err: fmt.Errorf("read file: %w", err)}
		}
		req.Media = &llm.Media{MIMEType: j.mimeType, Data: data}
	}

	resp, err := j.provider.Generate(ctx, req)
	if err != nil {
		return &generateResult{err: err}
	}
	return &generateResult{text: resp.Text, truncated: resp.Truncated}
}

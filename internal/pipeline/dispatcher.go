// Package pipeline routes inbound chat messages through analysis and
// verification and reports the outcome by editing a placeholder reply.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ppiankov/factbot/internal/format"
	"github.com/ppiankov/factbot/internal/model"
)

const videoNotice = "\n⚠️ This may take 1-2 min"

const documentFormats = "Formats: PDF, TXT, DOC, DOCX"

// Limits holds the size ceilings and storage settings the dispatcher enforces
type Limits struct {
	ImageMB       int
	VideoMB       int
	AudioMB       int
	DocumentMB    int
	DocumentTypes []string
	TempDir       string
}

// LimitsFromConfig builds Limits from the process configuration
func LimitsFromConfig(cfg model.Config) Limits {
	return Limits{
		ImageMB:       cfg.Limits.MaxImageSizeMB,
		VideoMB:       cfg.Limits.MaxVideoSizeMB,
		AudioMB:       cfg.Limits.MaxAudioSizeMB,
		DocumentMB:    cfg.Limits.MaxFileSizeMB,
		DocumentTypes: cfg.Formats.Document,
		TempDir:       cfg.Storage.TempDir,
	}
}

// Dispatcher runs one pipeline per inbound message
type Dispatcher struct {
	analyzer  Analyzer
	verifier  Verifier
	transport Transport
	limits    Limits
	logger    *slog.Logger
	newID     func() string
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(analyzer Analyzer, verifier Verifier, transport Transport, limits Limits, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		analyzer:  analyzer,
		verifier:  verifier,
		transport: transport,
		limits:    limits,
		logger:    logger.With("component", "pipeline"),
		newID:     uuid.NewString,
	}
}

// run describes one pipeline execution for a single variant
type run struct {
	modality    model.ContentType
	file        *FileRef // nil for text and link
	maxMB       int
	ext         string
	placeholder string
	analyze     func(ctx context.Context, path string) (*model.AnalyzedContent, error)
	inspect     func(content *model.AnalyzedContent) (string, bool)
	fallback    string
	suffix      string
}

// Dispatch handles msg to completion. Every outcome, including failures, is
// reported to the user; nothing is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch panicked", "user_id", msg.UserID, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	switch c := msg.Content.(type) {
	case TextContent:
		if HasURLToken(c.Text) {
			d.dispatchLink(ctx, msg, c.Text)
			return
		}
		d.dispatchText(ctx, msg, c.Text)
	case LinkContent:
		d.dispatchLink(ctx, msg, c.Text)
	case ImageContent:
		d.dispatchImage(ctx, msg, c.File)
	case VideoContent:
		d.dispatchVideo(ctx, msg, c.File)
	case AudioContent:
		d.dispatchAudio(ctx, msg, c.File, c.Voice)
	case DocumentContent:
		d.dispatchDocument(ctx, msg, c.File)
	default:
		d.reply(ctx, msg.Ref, format.UnsupportedTypeMessage())
	}
}

func (d *Dispatcher) dispatchText(ctx context.Context, msg Message, text string) {
	if strings.TrimSpace(text) == "" {
		d.reply(ctx, msg.Ref, format.ErrorMessage(format.ErrProcessing, ""))
		return
	}

	d.execute(ctx, msg, run{
		modality:    model.ContentTypeText,
		placeholder: format.ProcessingMessage(model.ContentTypeText),
		analyze: func(ctx context.Context, _ string) (*model.AnalyzedContent, error) {
			return d.analyzer.AnalyzeText(ctx, text, msg.UserID), nil
		},
		fallback: format.Head(text, format.PreviewLength),
	})
}

func (d *Dispatcher) dispatchLink(ctx context.Context, msg Message, text string) {
	urls := ExtractURLs(text)
	if len(urls) == 0 {
		d.reply(ctx, msg.Ref, format.ErrorMessage("invalid_url", ""))
		return
	}
	target := urls[0]

	d.execute(ctx, msg, run{
		modality:    model.ContentTypeLink,
		placeholder: format.ProcessingMessage(model.ContentTypeLink),
		analyze: func(ctx context.Context, _ string) (*model.AnalyzedContent, error) {
			return d.analyzer.ExtractFromURL(ctx, target, msg.UserID)
		},
		inspect: func(content *model.AnalyzedContent) (string, bool) {
			if strings.TrimSpace(content.ExtractedText) == "" {
				return format.InaccessibleMessage(), true
			}
			return "", false
		},
		fallback: "Web content",
		suffix:   format.SourceLine(target),
	})
}

func (d *Dispatcher) dispatchImage(ctx context.Context, msg Message, file FileRef) {
	d.executeFile(ctx, msg, file, run{
		modality:    model.ContentTypeImage,
		maxMB:       d.limits.ImageMB,
		ext:         ".jpg",
		placeholder: format.ProcessingMessage(model.ContentTypeImage),
		analyze: func(ctx context.Context, path string) (*model.AnalyzedContent, error) {
			return d.analyzer.AnalyzeImage(ctx, path, msg.UserID)
		},
		fallback: "Image",
	})
}

func (d *Dispatcher) dispatchVideo(ctx context.Context, msg Message, file FileRef) {
	d.executeFile(ctx, msg, file, run{
		modality:    model.ContentTypeVideo,
		maxMB:       d.limits.VideoMB,
		ext:         videoExt(file.MIMEType),
		placeholder: format.ProcessingMessage(model.ContentTypeVideo) + videoNotice,
		analyze: func(ctx context.Context, path string) (*model.AnalyzedContent, error) {
			return d.analyzer.AnalyzeVideo(ctx, path, msg.UserID)
		},
		fallback: "Video",
	})
}

func (d *Dispatcher) dispatchAudio(ctx context.Context, msg Message, file FileRef, voice bool) {
	d.executeFile(ctx, msg, file, run{
		modality:    model.ContentTypeAudio,
		maxMB:       d.limits.AudioMB,
		ext:         audioExt(voice),
		placeholder: format.ProcessingMessage(model.ContentTypeAudio),
		analyze: func(ctx context.Context, path string) (*model.AnalyzedContent, error) {
			return d.analyzer.AnalyzeAudio(ctx, path, msg.UserID)
		},
		fallback: "Audio",
	})
}

func (d *Dispatcher) dispatchDocument(ctx context.Context, msg Message, file FileRef) {
	if file.MIMEType == "" || !slices.Contains(d.limits.DocumentTypes, file.MIMEType) {
		d.reply(ctx, msg.Ref, format.ErrorMessage(format.ErrUnsupportedFormat, documentFormats))
		return
	}

	plain := file.MIMEType == "text/plain"
	d.executeFile(ctx, msg, file, run{
		modality:    model.ContentTypeDocument,
		maxMB:       d.limits.DocumentMB,
		ext:         documentExt(file.Name),
		placeholder: format.ProcessingMessage(model.ContentTypeDocument),
		analyze: func(ctx context.Context, path string) (*model.AnalyzedContent, error) {
			if !plain {
				return d.analyzer.AnalyzeImage(ctx, path, msg.UserID)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read document: %w", err)
			}
			return d.analyzer.AnalyzeText(ctx, strings.ToValidUTF8(string(data), ""), msg.UserID), nil
		},
		fallback: "Document",
	})
}

// executeFile applies the file guards before handing off to execute
func (d *Dispatcher) executeFile(ctx context.Context, msg Message, file FileRef, r run) {
	if file.ID == "" {
		d.reply(ctx, msg.Ref, format.ErrorMessage(format.ErrProcessing, ""))
		return
	}
	if ExceedsLimit(file.Size, r.maxMB) {
		d.reply(ctx, msg.Ref, format.ErrorMessage(format.ErrFileTooLarge, fmt.Sprintf("Max: %dMB", r.maxMB)))
		return
	}

	r.file = &file
	d.execute(ctx, msg, r)
}

// execute acknowledges the message, processes it and edits the
// acknowledgement with the outcome
func (d *Dispatcher) execute(ctx context.Context, msg Message, r run) {
	logger := d.logger.With("user_id", msg.UserID, "content_type", r.modality)
	logger.Info("processing message")

	placeholder, err := d.transport.Reply(ctx, msg.Ref, r.placeholder)
	if err != nil {
		logger.Error("failed to send placeholder", "error", err)
		return
	}

	text, err := d.process(ctx, msg, r, logger)
	if err != nil {
		text = d.errorText(err, logger)
	}

	if err := d.transport.Edit(ctx, placeholder, text); err != nil {
		logger.Error("failed to edit placeholder", "error", err)
	}
}

// process runs steps from download to formatting. It returns the final
// message text, or an error for the boundary to translate.
func (d *Dispatcher) process(ctx context.Context, msg Message, r run, logger *slog.Logger) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("pipeline panicked", "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("pipeline panic: %v", rec)
		}
	}()

	var path string
	if r.file != nil {
		path = filepath.Join(d.limits.TempDir, d.newID()+r.ext)
		defer d.cleanup(path, logger)

		if err := d.materialize(ctx, *r.file, path, r.maxMB); err != nil {
			return "", err
		}
	}

	content, err := r.analyze(ctx, path)
	if err != nil {
		return "", err
	}

	if r.inspect != nil {
		if stop, ok := r.inspect(content); ok {
			return stop, nil
		}
	}

	if !content.HasClaims() {
		return format.NoClaimsMessage(r.modality, content), nil
	}

	claim, ok := content.PrimaryClaim()
	if !ok || strings.TrimSpace(claim) == "" {
		return format.NoPrimaryClaimMessage(r.modality), nil
	}

	resp := d.verifier.VerifyClaim(ctx, msg.UserID, claim)
	if !resp.IsValid() {
		reason := "empty response"
		if resp != nil {
			reason = resp.ErrorMessage
		}
		logger.Error("verification failed", "error", reason)
		return format.ErrorMessage(format.ErrVerification, ""), nil
	}

	summary := content.Summary
	if summary == "" {
		summary = r.fallback
	}

	logger.Info("fact-check complete", "claims", len(content.Claims))
	return format.FactCheckResponse(summary, resp.Text(), r.modality, content.Claims) + r.suffix, nil
}

func (d *Dispatcher) materialize(ctx context.Context, file FileRef, path string, maxMB int) error {
	remote, err := d.transport.GetFile(ctx, file.ID)
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}
	if err := d.transport.Download(ctx, remote, path); err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	return CheckFileSize(path, maxMB)
}

func (d *Dispatcher) errorText(err error, logger *slog.Logger) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		logger.Warn("validation failed", "error", verr)
		return format.ErrorMessage(format.ErrFileTooLarge, verr.Error())
	}
	logger.Error("processing failed", "error", err)
	return format.ErrorMessage(format.ErrProcessing, "")
}

func (d *Dispatcher) cleanup(path string, logger *slog.Logger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}

func (d *Dispatcher) reply(ctx context.Context, to MessageRef, text string) {
	if _, err := d.transport.Reply(ctx, to, text); err != nil {
		d.logger.Error("failed to send reply", "error", err)
	}
}

package pipeline

import (
	"context"

	"github.com/ppiankov/factbot/internal/model"
)

// Content is the closed set of inbound content variants
type Content interface {
	content()
}

// TextContent is a plain text message
type TextContent struct {
	Text string
}

// LinkContent is a text message carrying at least one http(s) URL
type LinkContent struct {
	Text string
}

// ImageContent is a photo
type ImageContent struct {
	File FileRef
}

// VideoContent is a video file
type VideoContent struct {
	File FileRef
}

// AudioContent is an audio file or a voice note
type AudioContent struct {
	File  FileRef
	Voice bool
}

// DocumentContent is an uploaded document
type DocumentContent struct {
	File FileRef
}

func (TextContent) content()     {}
func (LinkContent) content()     {}
func (ImageContent) content()    {}
func (VideoContent) content()    {}
func (AudioContent) content()    {}
func (DocumentContent) content() {}

// FileRef carries the platform's hints about a remote file
type FileRef struct {
	ID       string
	Size     int64 // Reported by the platform; 0 when unknown
	MIMEType string
	Name     string
}

// MessageRef identifies a chat message
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Message is one inbound user message
type Message struct {
	UserID  string
	Ref     MessageRef
	Content Content
}

// RemoteFile is a resolved download location
type RemoteFile struct {
	ID   string
	URL  string
	Size int64
}

// Analyzer extracts claims from content
type Analyzer interface {
	AnalyzeText(ctx context.Context, text, userID string) *model.AnalyzedContent
	AnalyzeImage(ctx context.Context, path, userID string) (*model.AnalyzedContent, error)
	AnalyzeVideo(ctx context.Context, path, userID string) (*model.AnalyzedContent, error)
	AnalyzeAudio(ctx context.Context, path, userID string) (*model.AnalyzedContent, error)
	ExtractFromURL(ctx context.Context, url, userID string) (*model.AnalyzedContent, error)
}

// Verifier checks a single claim
type Verifier interface {
	VerifyClaim(ctx context.Context, userID, query string) *model.VerificationResponse
}

// Transport is the chat platform as seen by the pipeline
type Transport interface {
	// Reply sends text in reply to a message and returns the sent message
	Reply(ctx context.Context, to MessageRef, text string) (MessageRef, error)

	// Edit replaces the text of a message sent earlier
	Edit(ctx context.Context, ref MessageRef, text string) error

	// GetFile resolves a file ID to a download location
	GetFile(ctx context.Context, fileID string) (RemoteFile, error)

	// Download writes the file's content to dest
	Download(ctx context.Context, file RemoteFile, dest string) error
}

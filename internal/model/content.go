package model

import "time"

// ContentType identifies the modality of user-submitted content
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeVideo    ContentType = "video"
	ContentTypeAudio    ContentType = "audio"
	ContentTypeLink     ContentType = "link"
	ContentTypeDocument ContentType = "document"
)

// AnalyzedContent is the result of running the analysis backend on one input.
// It is built once by the analyzer and treated as read-only afterwards.
type AnalyzedContent struct {
	ContentType   ContentType `json:"content_type"`
	UserID        string      `json:"user_id"`
	Timestamp     time.Time   `json:"timestamp"`
	ExtractedText string      `json:"extracted_text,omitempty"` // Transcription, OCR or page text
	Summary       string      `json:"summary,omitempty"`
	Claims        []string    `json:"claims"` // Extraction order
	ClaimType     ClaimType   `json:"claim_type"`
	Language      string      `json:"language,omitempty"`
	Context       string      `json:"context,omitempty"`
	SourceInfo    string      `json:"source_info,omitempty"`
}

// NewAnalyzedContent creates an empty AnalyzedContent stamped with the current time
func NewAnalyzedContent(contentType ContentType, userID string) *AnalyzedContent {
	return &AnalyzedContent{
		ContentType: contentType,
		UserID:      userID,
		Timestamp:   time.Now(),
		Claims:      []string{},
		ClaimType:   ClaimTypeUnknown,
	}
}

// HasClaims reports whether at least one claim was extracted
func (c *AnalyzedContent) HasClaims() bool {
	return len(c.Claims) > 0
}

// PrimaryClaim returns the first extracted claim
func (c *AnalyzedContent) PrimaryClaim() (string, bool) {
	if len(c.Claims) == 0 {
		return "", false
	}
	return c.Claims[0], true
}

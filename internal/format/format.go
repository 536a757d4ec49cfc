// Package format renders the user-facing chat messages. All functions are
// pure and never fail.
package format

import (
	"fmt"
	"strings"

	"github.com/ppiankov/factbot/internal/model"
)

// ErrorKind selects a fixed error message
type ErrorKind string

const (
	ErrFileTooLarge      ErrorKind = "file_too_large"
	ErrUnsupportedFormat ErrorKind = "unsupported_format"
	ErrVerification      ErrorKind = "vera_error"
	ErrProcessing        ErrorKind = "processing_error"
)

// MaxListedClaims is how many claims a fact-check response shows
const MaxListedClaims = 2

const separator = "━━━━━━━━━━━━━━━━"

var emojis = map[model.ContentType]string{
	model.ContentTypeText:  "📝",
	model.ContentTypeImage: "🖼️",
	model.ContentTypeVideo: "🎬",
	model.ContentTypeAudio: "🎵",
	model.ContentTypeLink:  "🔗",
}

var errorMessages = map[ErrorKind]string{
	ErrFileTooLarge:      "❌ File too large",
	ErrUnsupportedFormat: "❌ Unsupported format",
	ErrVerification:      "❌ Service unavailable",
	ErrProcessing:        "❌ Processing error",
}

var processingMessages = map[model.ContentType]string{
	model.ContentTypeImage: "🖼️ Analyzing...",
	model.ContentTypeVideo: "🎬 Transcribing...",
	model.ContentTypeAudio: "🎵 Transcribing...",
	model.ContentTypeLink:  "🔗 Extracting...",
}

// Emoji returns the header emoji for a modality
func Emoji(ct model.ContentType) string {
	if e, ok := emojis[ct]; ok {
		return e
	}
	return "📄"
}

// FactCheckResponse renders the final message: header, optional summary,
// at most MaxListedClaims claims, then the verification text verbatim.
func FactCheckResponse(summary, verification string, ct model.ContentType, claims []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s *Analysis*\n%s\n", Emoji(ct), separator)

	if summary != "" {
		fmt.Fprintf(&sb, "📋 %s\n\n", summary)
	}

	if len(claims) > 0 {
		sb.WriteString("🎯 *Claims:*\n")
		for i, claim := range claims {
			if i >= MaxListedClaims {
				break
			}
			fmt.Fprintf(&sb, "%d. _%s_\n", i+1, claim)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "🔍 *Verification:*\n%s", verification)
	return sb.String()
}

// ErrorMessage returns the message for kind, with details as an italic line.
// Unknown kinds get a generic message.
func ErrorMessage(kind ErrorKind, details string) string {
	msg, ok := errorMessages[kind]
	if !ok {
		msg = "❌ Error"
	}
	if details != "" {
		msg += "\n_" + details + "_"
	}
	return msg
}

// ProcessingMessage returns the placeholder text for a modality
func ProcessingMessage(ct model.ContentType) string {
	if msg, ok := processingMessages[ct]; ok {
		return msg
	}
	return "⏳ Processing..."
}

package format

import (
	"fmt"
	"strings"

	"github.com/ppiankov/factbot/internal/model"
)

// PreviewLength is the number of characters kept in transcript previews
const PreviewLength = 200

// Truncate keeps the first n characters of s and appends "..." when it cut
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Head returns the first n characters of s
func Head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TranscriptPreview renders extracted text for no-claims messages
func TranscriptPreview(text string) string {
	if strings.TrimSpace(text) == "" {
		return "No transcription"
	}
	return Truncate(text, PreviewLength)
}

// NoClaimsMessage is shown when analysis found nothing to verify
func NoClaimsMessage(ct model.ContentType, content *model.AnalyzedContent) string {
	switch ct {
	case model.ContentTypeText:
		return "ℹ️ No factual claims detected"
	case model.ContentTypeVideo:
		return fmt.Sprintf("ℹ️ Video analyzed\n\n💬 %s\n\nNo claims detected", TranscriptPreview(content.ExtractedText))
	case model.ContentTypeAudio:
		return fmt.Sprintf("ℹ️ Audio analyzed\n\n💬 %s\n\nNo claims detected", TranscriptPreview(content.ExtractedText))
	case model.ContentTypeLink:
		summary := content.Summary
		if summary == "" {
			summary = "Web content"
		}
		return fmt.Sprintf("ℹ️ Content analyzed\n\n%s\n\nNo claims detected", summary)
	case model.ContentTypeDocument:
		return "ℹ️ No claims detected in the document"
	default:
		return "ℹ️ No claims detected"
	}
}

// NoPrimaryClaimMessage is shown when claims exist but none is usable
func NoPrimaryClaimMessage(ct model.ContentType) string {
	switch ct {
	case model.ContentTypeText:
		return "ℹ️ Unable to extract a verifiable claim"
	case model.ContentTypeVideo:
		return "ℹ️ Video analyzed\n\nNo verifiable claim found"
	case model.ContentTypeAudio:
		return "ℹ️ Audio analyzed\n\nNo verifiable claim found"
	case model.ContentTypeLink:
		return "ℹ️ Content analyzed\n\nNo verifiable claim detected"
	case model.ContentTypeDocument:
		return "ℹ️ No primary claim detected in the document"
	default:
		return "ℹ️ No claims detected"
	}
}

// InaccessibleMessage is shown when a link yielded no content
func InaccessibleMessage() string {
	return "⚠️ Content inaccessible\n\nTry copying the text directly"
}

// SourceLine is appended to link results
func SourceLine(url string) string {
	return "\n\n🔗 Source: " + url
}

// UnsupportedTypeMessage answers messages the bot cannot analyze
func UnsupportedTypeMessage() string {
	return "❌ Unsupported message type. /help for more info"
}

// StartMessage answers /start
func StartMessage() string {
	return "👋 Fact-Checking Bot\n\n" +
		"Send text, images, videos, audio or links to have them checked!\n\n" +
		"/help - Help\n/about - About"
}

// HelpMessage answers /help with the configured limits
func HelpMessage(limits model.LimitsConfig) string {
	return fmt.Sprintf("📚 Help\n\n"+
		"✅ Text\n✅ Images (OCR)\n✅ Videos (transcription)\n"+
		"✅ Audio\n✅ Web links\n✅ Documents (PDF, TXT, DOC, DOCX)\n\n"+
		"Limits:\nImages: %dMB\nVideos: %dMB\nAudio: %dMB\nDocuments: %dMB",
		limits.MaxImageSizeMB, limits.MaxVideoSizeMB, limits.MaxAudioSizeMB, limits.MaxFileSizeMB)
}

// AboutMessage answers /about
func AboutMessage(version, provider string) string {
	return fmt.Sprintf("ℹ️ Fact-Checking Bot %s\n\n"+
		"🧠 %s + verification API\n"+
		"🔒 Files are temporary and deleted after analysis", version, provider)
}

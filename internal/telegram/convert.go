package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ppiankov/factbot/internal/pipeline"
)

// toMessage converts a Telegram message into a pipeline message. It reports
// false for message kinds the pipeline cannot analyze.
func toMessage(m *tgbotapi.Message) (pipeline.Message, bool) {
	if m == nil || m.Chat == nil {
		return pipeline.Message{}, false
	}

	msg := pipeline.Message{
		UserID: userID(m),
		Ref:    pipeline.MessageRef{ChatID: m.Chat.ID, MessageID: m.MessageID},
	}

	switch {
	case m.Text != "":
		msg.Content = pipeline.TextContent{Text: m.Text}
	case len(m.Photo) > 0:
		// Sizes are ordered smallest first
		p := m.Photo[len(m.Photo)-1]
		msg.Content = pipeline.ImageContent{File: pipeline.FileRef{
			ID:       p.FileID,
			Size:     int64(p.FileSize),
			MIMEType: "image/jpeg",
		}}
	case m.Video != nil:
		msg.Content = pipeline.VideoContent{File: pipeline.FileRef{
			ID:       m.Video.FileID,
			Size:     int64(m.Video.FileSize),
			MIMEType: m.Video.MimeType,
			Name:     m.Video.FileName,
		}}
	case m.Voice != nil:
		msg.Content = pipeline.AudioContent{Voice: true, File: pipeline.FileRef{
			ID:       m.Voice.FileID,
			Size:     int64(m.Voice.FileSize),
			MIMEType: m.Voice.MimeType,
		}}
	case m.Audio != nil:
		msg.Content = pipeline.AudioContent{File: pipeline.FileRef{
			ID:       m.Audio.FileID,
			Size:     int64(m.Audio.FileSize),
			MIMEType: m.Audio.MimeType,
			Name:     m.Audio.FileName,
		}}
	case m.Document != nil:
		msg.Content = pipeline.DocumentContent{File: pipeline.FileRef{
			ID:       m.Document.FileID,
			Size:     int64(m.Document.FileSize),
			MIMEType: m.Document.MimeType,
			Name:     m.Document.FileName,
		}}
	default:
		return msg, false
	}

	return msg, true
}

func userID(m *tgbotapi.Message) string {
	if m.From != nil {
		return strconv.FormatInt(m.From.ID, 10)
	}
	return strconv.FormatInt(m.Chat.ID, 10)
}

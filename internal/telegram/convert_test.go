package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factbot/internal/pipeline"
)

func baseMessage() *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: 42},
		Chat:      &tgbotapi.Chat{ID: 1001},
	}
}

func TestToMessage_Text(t *testing.T) {
	m := baseMessage()
	m.Text = "The moon is made of cheese."

	msg, ok := toMessage(m)
	require.True(t, ok)
	assert.Equal(t, "42", msg.UserID)
	assert.Equal(t, pipeline.MessageRef{ChatID: 1001, MessageID: 7}, msg.Ref)
	assert.Equal(t, pipeline.TextContent{Text: "The moon is made of cheese."}, msg.Content)
}

func TestToMessage_PhotoUsesLargestSize(t *testing.T) {
	m := baseMessage()
	m.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", FileSize: 100},
		{FileID: "large", FileSize: 9000},
	}

	msg, ok := toMessage(m)
	require.True(t, ok)
	img, ok := msg.Content.(pipeline.ImageContent)
	require.True(t, ok)
	assert.Equal(t, "large", img.File.ID)
	assert.Equal(t, int64(9000), img.File.Size)
}

func TestToMessage_MediaKinds(t *testing.T) {
	video := baseMessage()
	video.Video = &tgbotapi.Video{FileID: "v", FileSize: 10, MimeType: "video/mp4"}

	voice := baseMessage()
	voice.Voice = &tgbotapi.Voice{FileID: "n", FileSize: 3, MimeType: "audio/ogg"}

	audio := baseMessage()
	audio.Audio = &tgbotapi.Audio{FileID: "a", FileSize: 5, MimeType: "audio/mpeg", FileName: "talk.mp3"}

	doc := baseMessage()
	doc.Document = &tgbotapi.Document{FileID: "d", FileSize: 8, MimeType: "application/pdf", FileName: "r.pdf"}

	tests := []struct {
		name string
		in   *tgbotapi.Message
		want pipeline.Content
	}{
		{"video", video, pipeline.VideoContent{File: pipeline.FileRef{ID: "v", Size: 10, MIMEType: "video/mp4"}}},
		{"voice", voice, pipeline.AudioContent{Voice: true, File: pipeline.FileRef{ID: "n", Size: 3, MIMEType: "audio/ogg"}}},
		{"audio", audio, pipeline.AudioContent{File: pipeline.FileRef{ID: "a", Size: 5, MIMEType: "audio/mpeg", Name: "talk.mp3"}}},
		{"document", doc, pipeline.DocumentContent{File: pipeline.FileRef{ID: "d", Size: 8, MIMEType: "application/pdf", Name: "r.pdf"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := toMessage(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.Content)
		})
	}
}

func TestToMessage_Unsupported(t *testing.T) {
	m := baseMessage()
	m.Sticker = &tgbotapi.Sticker{FileID: "s"}

	_, ok := toMessage(m)
	assert.False(t, ok)

	_, ok = toMessage(nil)
	assert.False(t, ok)
}

func TestToMessage_ChannelPostFallsBackToChatID(t *testing.T) {
	m := baseMessage()
	m.From = nil
	m.Text = "hello"

	msg, ok := toMessage(m)
	require.True(t, ok)
	assert.Equal(t, "1001", msg.UserID)
}

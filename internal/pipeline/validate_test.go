package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractURLs(t *testing.T) {
	got := ExtractURLs("see https://a.example/x and http://b.example also ftp://c.example <https://d.example/>")
	assert.Equal(t, []string{"https://a.example/x", "http://b.example", "https://d.example/"}, got)

	assert.Empty(t, ExtractURLs("no links here"))
	assert.Empty(t, ExtractURLs("https:///path-only"))
}

func TestHasURLToken(t *testing.T) {
	assert.True(t, HasURLToken("read https://x.example now"))
	assert.True(t, HasURLToken("http://x"))
	assert.False(t, HasURLToken("see:https://x.example"))
	assert.False(t, HasURLToken("plain text"))
}

func TestCheckFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, bytesPerMB+1), 0o600))

	err := CheckFileSize(path, 1)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "File too large: 1.00 MB (max: 1 MB)", verr.Error())

	assert.NoError(t, CheckFileSize(path, 2))
	assert.Error(t, CheckFileSize(filepath.Join(t.TempDir(), "missing"), 1))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, ".docx", documentExt("Report.DOCX"))
	assert.Equal(t, ".pdf", documentExt("noext"))
	assert.Equal(t, ".txt", documentExt("notes.t$xt"))

	assert.Equal(t, ".mov", videoExt("video/quicktime"))
	assert.Equal(t, ".avi", videoExt("video/x-msvideo"))
	assert.Equal(t, ".3gpp", videoExt("video/3gpp"))
	assert.Equal(t, ".mp4", videoExt(""))

	assert.Equal(t, ".ogg", audioExt(true))
	assert.Equal(t, ".mp3", audioExt(false))
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantClaims []string
	}{
		{"plain object", `{"claims": ["a"]}`, true, []string{"a"}},
		{"json fence", "```json\n{\"claims\": [\"a\", \"b\"]}\n```", true, []string{"a", "b"}},
		{"bare fence", "```\n{\"claims\": [\"a\"]}\n```", true, []string{"a"}},
		{"surrounding prose", "Here you go:\n{\"claims\": [\"a\"]}\nThanks", true, []string{"a"}},
		{"blank claims dropped", `{"claims": ["", "  ", "b"]}`, true, []string{"b"}},
		{"not json", "no idea", false, []string{}},
		{"empty", "", false, []string{}},
		{"wrong claim type", `{"claims": [1, 2]}`, false, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := parseCompletion(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantClaims, c.claims())
		})
	}
}

func TestParseCompletion_FailureMatchesEmptyObject(t *testing.T) {
	failed, ok := parseCompletion("garbage")
	assert.False(t, ok)

	empty, ok := parseCompletion("{}")
	assert.True(t, ok)

	assert.Equal(t, empty, failed)
}

func TestMediaTypeForPath(t *testing.T) {
	tests := map[string]string{
		"a.mp3":      "audio/mpeg",
		"a.ogg":      "audio/ogg",
		"a.mp4":      "video/mp4",
		"a.avi":      "video/x-msvideo",
		"/tmp/a.MOV": "video/quicktime",
		"a.webm":     DefaultMediaType,
		"noext":      DefaultMediaType,
	}
	for path, want := range tests {
		assert.Equal(t, want, MediaTypeForPath(path), path)
	}
}

func TestImageMediaType(t *testing.T) {
	assert.Equal(t, "image/jpeg", imageMediaType("x.jpg"))
	assert.Equal(t, "image/jpeg", imageMediaType("x"))
	assert.Equal(t, "application/pdf", imageMediaType("x.pdf"))
	assert.Equal(t, "application/msword", imageMediaType("x.doc"))
}

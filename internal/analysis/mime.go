package analysis

import (
	"path/filepath"
	"strings"
)

// DefaultMediaType is used for extensions missing from the table
const DefaultMediaType = "application/octet-stream"

var mediaTypes = map[string]string{
	".mp3": "audio/mpeg",
	".ogg": "audio/ogg",
	".mp4": "video/mp4",
	".avi": "video/x-msvideo",
	".mov": "video/quicktime",
}

var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// MediaTypeForPath maps an audio or video file extension to its MIME type
func MediaTypeForPath(path string) string {
	if mt, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return DefaultMediaType
}

// imageMediaType returns image/jpeg, except for document files that are
// analyzed through the image path.
func imageMediaType(path string) string {
	if mt, ok := documentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "image/jpeg"
}

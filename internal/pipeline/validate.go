package pipeline

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const bytesPerMB = 1024 * 1024

var urlPattern = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")

// ValidationError reports content that breaks a configured limit
type ValidationError struct {
	Size  int64
	MaxMB int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("File too large: %.2f MB (max: %d MB)", float64(e.Size)/bytesPerMB, e.MaxMB)
}

// CheckFileSize returns a *ValidationError when the file at path exceeds maxMB
func CheckFileSize(path string, maxMB int) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > int64(maxMB)*bytesPerMB {
		return &ValidationError{Size: info.Size(), MaxMB: maxMB}
	}
	return nil
}

// ExceedsLimit reports whether a platform-reported size is over maxMB
func ExceedsLimit(size int64, maxMB int) bool {
	return size > int64(maxMB)*bytesPerMB
}

// IsValidURL reports whether raw is an absolute http(s) URL with a host
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ExtractURLs returns the valid URLs in text in order of appearance
func ExtractURLs(text string) []string {
	var urls []string
	for _, candidate := range urlPattern.FindAllString(text, -1) {
		if IsValidURL(candidate) {
			urls = append(urls, candidate)
		}
	}
	return urls
}

// HasURLToken reports whether any whitespace-separated word starts with
// http:// or https://
func HasURLToken(text string) bool {
	for _, w := range strings.Fields(text) {
		if strings.HasPrefix(w, "http://") || strings.HasPrefix(w, "https://") {
			return true
		}
	}
	return false
}

var extSanitizer = regexp.MustCompile(`[^A-Za-z0-9]`)

// documentExt returns the sanitized suffix of a file name, or .pdf
func documentExt(name string) string {
	ext := extSanitizer.ReplaceAllString(strings.TrimPrefix(filepath.Ext(name), "."), "")
	if ext == "" {
		return ".pdf"
	}
	return "." + strings.ToLower(ext)
}

var videoExts = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/x-msvideo": ".avi",
	"video/mpeg":      ".mpeg",
	"video/webm":      ".webm",
}

// videoExt derives an extension from the declared MIME type, or .mp4
func videoExt(mimeType string) string {
	if ext, ok := videoExts[strings.ToLower(mimeType)]; ok {
		return ext
	}
	if i := strings.LastIndex(mimeType, "/"); i >= 0 {
		if sub := extSanitizer.ReplaceAllString(mimeType[i+1:], ""); sub != "" {
			return "." + strings.ToLower(sub)
		}
	}
	return ".mp4"
}

// audioExt is .ogg for voice notes and .mp3 for audio files
func audioExt(voice bool) string {
	if voice {
		return ".ogg"
	}
	return ".mp3"
}

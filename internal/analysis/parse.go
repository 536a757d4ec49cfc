package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("^```(?:json)?\\s*|\\s*```$")

// completion holds the keys the prompts ask for
type completion struct {
	Summary       string   `json:"summary"`
	ExtractedText string   `json:"extracted_text"`
	Transcription string   `json:"transcription"`
	Claims        []string `json:"claims"`
	ClaimType     string   `json:"claim_type"`
	Language      string   `json:"language"`
}

// parseCompletion decodes the backend's answer, tolerating a fenced code
// block around it. On failure it returns the zero completion and false;
// callers treat that the same as a valid object with every key absent.
func parseCompletion(text string) (completion, bool) {
	cleaned := fencePattern.ReplaceAllString(strings.TrimSpace(text), "")

	var c completion
	if err := json.Unmarshal([]byte(cleaned), &c); err == nil {
		return c, true
	}

	// Some models add prose around the object.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		c = completion{}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &c); err == nil {
			return c, true
		}
	}

	return completion{}, false
}

// claims returns the non-blank claims in extraction order
func (c completion) claims() []string {
	out := make([]string, 0, len(c.Claims))
	for _, claim := range c.Claims {
		if claim = strings.TrimSpace(claim); claim != "" {
			out = append(out, claim)
		}
	}
	return out
}

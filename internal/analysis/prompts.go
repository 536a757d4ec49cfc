package analysis

import "fmt"

const jsonRules = `Answer with a single JSON object and nothing else. Claims must be short,
self-contained factual statements in the language of the content, most
important first. Use an empty list when there are no factual claims.`

func textPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following text and find the factual claims it makes.

Text:
%s

%s
JSON: {"summary": "...", "claims": ["..."], "claim_type": "factual|opinion|unknown", "language": "..."}`, text, jsonRules)
}

func imagePrompt() string {
	return fmt.Sprintf(`Extract all readable text from the attached file and find the factual claims it makes.

%s
JSON: {"extracted_text": "...", "claims": ["..."], "claim_type": "factual|opinion|unknown"}`, jsonRules)
}

func videoPrompt() string {
	return fmt.Sprintf(`Transcribe the speech in the attached video, describe any on-screen text,
and find the factual claims it makes.

%s
JSON: {"transcription": "...", "claims": ["..."], "claim_type": "factual|opinion|unknown"}`, jsonRules)
}

func audioPrompt() string {
	return fmt.Sprintf(`Transcribe the attached audio and find the factual claims it makes.

%s
JSON: {"transcription": "...", "claims": ["..."], "claim_type": "factual|opinion|unknown"}`, jsonRules)
}

func urlPrompt(url string) string {
	return fmt.Sprintf(`Analyze the content published at %s and find the factual claims it makes.
If the page cannot be accessed, return an empty extracted_text.

%s
JSON: {"extracted_text": "...", "summary": "...", "claims": ["..."]}`, url, jsonRules)
}

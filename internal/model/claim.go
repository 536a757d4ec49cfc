package model

import "strings"

// ClaimType categorizes the nature of the extracted claims
type ClaimType string

const (
	ClaimTypeFactual ClaimType = "factual" // Verifiable statements of fact
	ClaimTypeOpinion ClaimType = "opinion" // Judgements or predictions
	ClaimTypeUnknown ClaimType = "unknown" // Not classified by the backend
)

// ParseClaimType maps a backend label to a ClaimType.
// Unrecognized labels map to ClaimTypeUnknown.
func ParseClaimType(s string) ClaimType {
	switch ClaimType(strings.ToLower(strings.TrimSpace(s))) {
	case ClaimTypeFactual:
		return ClaimTypeFactual
	case ClaimTypeOpinion:
		return ClaimTypeOpinion
	default:
		return ClaimTypeUnknown
	}
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzedContent_Claims(t *testing.T) {
	c := NewAnalyzedContent(ContentTypeText, "42")
	assert.False(t, c.HasClaims())
	_, ok := c.PrimaryClaim()
	assert.False(t, ok)
	assert.Equal(t, ClaimTypeUnknown, c.ClaimType)

	c.Claims = []string{"first", "second"}
	assert.True(t, c.HasClaims())
	claim, ok := c.PrimaryClaim()
	require.True(t, ok)
	assert.Equal(t, "first", claim)
}

func TestParseClaimType(t *testing.T) {
	assert.Equal(t, ClaimTypeFactual, ParseClaimType("factual"))
	assert.Equal(t, ClaimTypeOpinion, ParseClaimType(" Opinion "))
	assert.Equal(t, ClaimTypeUnknown, ParseClaimType(""))
	assert.Equal(t, ClaimTypeUnknown, ParseClaimType("rumour"))
}

func TestVerificationResponse_IsValid(t *testing.T) {
	assert.True(t, NewVerificationSuccess("Confirmed true.").IsValid())
	assert.True(t, NewVerificationSuccess("").IsValid(), "empty body with success is still valid")
	assert.False(t, NewVerificationFailure("too many requests").IsValid())
	assert.False(t, (&VerificationResponse{Success: true}).IsValid(), "success without body")

	var nilResp *VerificationResponse
	assert.False(t, nilResp.IsValid())
	assert.Equal(t, "", nilResp.Text())
	assert.Equal(t, "Confirmed true.", NewVerificationSuccess("Confirmed true.").Text())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token")
	assert.Contains(t, err.Error(), "llm.api_key")
	assert.Contains(t, err.Error(), "verification.url")

	cfg.Telegram.Token = "123:abc"
	cfg.LLM.APIKey = "key"
	cfg.Verification.URL = "https://vera.example/api"
	cfg.Verification.APIKey = "vera-key"
	assert.NoError(t, cfg.Validate())

	cfg.Telegram.Mode = "webhook"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook_url")

	cfg.Telegram.WebhookURL = "https://bot.example"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ValidateBackends_Ollama(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.Verification.URL = "http://localhost:9000"
	cfg.Verification.APIKey = "k"
	assert.Empty(t, cfg.ValidateBackends())
}

package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/factbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(model.VerificationConfig{
		URL:           url,
		APIKey:        "vera-key",
		Timeout:       5,
		HealthTimeout: 1,
	}, model.ProxyConfig{}, nil)
}

func TestVerifyClaim_StreamsChunks(t *testing.T) {
	var got model.VerificationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "vera-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, part := range []string{"Confirmed ", "", "true. ", "Sources: é"} {
			_, _ = w.Write([]byte(part))
			flusher.Flush()
			time.Sleep(5 * time.Millisecond)
		}
	}))
	defer server.Close()

	resp := newTestClient(server.URL).VerifyClaim(context.Background(), "42", "The Eiffel Tower is in Paris.")

	require.True(t, resp.IsValid())
	assert.Equal(t, "Confirmed true. Sources: é", resp.Text())
	assert.Equal(t, "42", got.UserID)
	assert.Equal(t, "The Eiffel Tower is in Paris.", got.Query)
}

func TestVerifyClaim_RequestBodyKeys(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
	}))
	defer server.Close()

	resp := newTestClient(server.URL).VerifyClaim(context.Background(), "42", "q")

	assert.True(t, resp.IsValid(), "empty successful body is valid")
	assert.Equal(t, map[string]any{"userId": "42", "query": "q"}, raw)
}

func TestVerifyClaim_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "invalid API key"},
		{http.StatusTooManyRequests, "too many requests"},
		{http.StatusInternalServerError, "upstream server error"},
		{http.StatusTeapot, "error 418"},
		{http.StatusBadGateway, "error 502"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("details that must not leak"))
			}))
			defer server.Close()

			resp := newTestClient(server.URL).VerifyClaim(context.Background(), "42", "q")

			assert.False(t, resp.IsValid())
			assert.False(t, resp.Success)
			assert.Equal(t, tt.want, resp.ErrorMessage)
			assert.Empty(t, resp.Text())
		})
	}
}

func TestVerifyClaim_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resp := newTestClient(url).VerifyClaim(context.Background(), "42", "q")

	assert.False(t, resp.IsValid())
	assert.NotEmpty(t, resp.ErrorMessage)
}

func TestVerifyClaim_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	resp := newTestClient(server.URL).VerifyClaim(ctx, "42", "q")

	assert.False(t, resp.IsValid())
	assert.True(t, strings.Contains(resp.ErrorMessage, "deadline") || strings.Contains(resp.ErrorMessage, "context"))
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusOK, true},
		{http.StatusUnprocessableEntity, true},
		{http.StatusUnauthorized, false},
		{http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var got model.VerificationRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			assert.Equal(t, tt.want, newTestClient(server.URL).HealthCheck(context.Background()))
			assert.Equal(t, model.VerificationRequest{UserID: "test", Query: "test"}, got)
		})
	}
}

func TestHealthCheck_Unreachable(t *testing.T) {
	assert.False(t, newTestClient("http://127.0.0.1:1").HealthCheck(context.Background()))
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "too many requests", StatusMessage(429))
	assert.Equal(t, "error 404", StatusMessage(404))
}

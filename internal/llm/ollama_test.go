package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Generate_Success(t *testing.T) {
	var got ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llava",
			Response:        `{"claims": ["a"]}`,
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llava", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Prompt: "read the image",
		Media:  &Media{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != `{"claims": ["a"]}` {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Expected 30 tokens, got %d", resp.TokensUsed)
	}
	if got.Format != "json" || got.Stream {
		t.Errorf("Expected non-streaming json request, got format=%q stream=%v", got.Format, got.Stream)
	}
	if len(got.Images) != 1 {
		t.Errorf("Expected one image, got %d", len(got.Images))
	}
}

func TestOllamaProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model 'llava' not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llava"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected API error message, got %v", err)
	}
}

func TestOllamaProvider_Generate_UnsupportedMedia(t *testing.T) {
	provider, err := NewOllamaProvider(Config{Model: "llava"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), GenerateRequest{
		Prompt: "x",
		Media:  &Media{MIMEType: "video/mp4"},
	})
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("Expected ErrUnsupportedMedia, got %v", err)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llava"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}
}

func TestNewOllamaProvider_NoModel(t *testing.T) {
	if _, err := NewOllamaProvider(Config{}); err == nil {
		t.Fatal("Expected error when model is not specified")
	}
}

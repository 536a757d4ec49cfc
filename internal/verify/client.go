package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ppiankov/factbot/internal/model"
	"github.com/ppiankov/factbot/internal/util"
)

const chunkSize = 4096

var statusMessages = map[int]string{
	http.StatusUnauthorized:        "invalid API key",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusInternalServerError: "upstream server error",
}

// StatusMessage maps an HTTP error status to a short description
func StatusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("error %d", code)
}

// Client submits claims to the fact-verification service
type Client struct {
	url          string
	apiKey       string
	httpClient   *http.Client
	healthClient *http.Client
	logger       *slog.Logger
}

// NewClient creates a verification client
func NewClient(cfg model.VerificationConfig, proxy model.ProxyConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	healthTimeout := time.Duration(cfg.HealthTimeout) * time.Second
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}

	return &Client{
		url:          cfg.URL,
		apiKey:       cfg.APIKey,
		httpClient:   util.NewHTTPClient(timeout, proxy),
		healthClient: util.NewHTTPClient(healthTimeout, proxy),
		logger:       logger.With("component", "verify"),
	}
}

// VerifyClaim sends one claim and returns the whole streamed answer.
// Failures are reported in the response, never as an error.
func (c *Client) VerifyClaim(ctx context.Context, userID, query string) *model.VerificationResponse {
	resp, err := c.post(ctx, c.httpClient, model.VerificationRequest{UserID: userID, Query: query})
	if err != nil {
		c.logger.Error("verification request failed", "user_id", userID, "error", err)
		return model.NewVerificationFailure(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.NewVerificationFailure(StatusMessage(resp.StatusCode))
	}

	body, err := readChunks(resp.Body)
	if err != nil {
		c.logger.Error("verification stream interrupted", "user_id", userID, "error", err)
		return model.NewVerificationFailure(err.Error())
	}

	return model.NewVerificationSuccess(body)
}

// HealthCheck posts a probe request. A 422 counts as healthy: the service
// is up and rejected the dummy payload.
func (c *Client) HealthCheck(ctx context.Context) bool {
	resp, err := c.post(ctx, c.healthClient, model.VerificationRequest{UserID: "test", Query: "test"})
	if err != nil {
		c.logger.Warn("verification health check failed", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnprocessableEntity
}

func (c *Client) post(ctx context.Context, hc *http.Client, body model.VerificationRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// readChunks reads the body incrementally and joins the non-empty chunks
// in arrival order. Bytes are joined before decoding so multi-byte
// characters split across chunks stay intact.
func readChunks(r io.Reader) (string, error) {
	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			return buf.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("read stream: %w", err)
		}
	}
}

// Package server exposes health probes and the Telegram webhook over HTTP
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// WebhookReceiver accepts updates posted by Telegram
type WebhookReceiver interface {
	WebhookPath() string
	ReceiveWebhook(r *http.Request) error
}

// Server is the bot's HTTP surface
type Server struct {
	addr    string
	webhook WebhookReceiver // nil in polling mode
	logger  *slog.Logger

	// Result of the startup verification check
	verified atomic.Bool
}

// New creates a Server. webhook may be nil.
func New(addr string, webhook WebhookReceiver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		webhook: webhook,
		logger:  logger.With("component", "server"),
	}
}

// SetVerified records whether the verification service answered at startup
func (s *Server) SetVerified(ok bool) {
	s.verified.Store(ok)
}

// SetupRouter builds the gin engine with all routes
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.Healthz)
	r.GET("/readyz", s.Readyz)

	if s.webhook != nil {
		r.POST(s.webhook.WebhookPath(), s.Webhook)
	}

	return r
}

// Healthz reports liveness
func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports readiness along with the startup verification result. It
// never calls the verification service itself.
func (s *Server) Readyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "verification": s.verified.Load()})
}

// Webhook hands a posted update to the bot
func (s *Server) Webhook(c *gin.Context) {
	if err := s.webhook.ReceiveWebhook(c.Request); err != nil {
		s.logger.Warn("rejected webhook update", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update"})
		return
	}
	c.Status(http.StatusOK)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

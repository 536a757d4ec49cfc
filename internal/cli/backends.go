package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/factbot/internal/analysis"
	"github.com/ppiankov/factbot/internal/llm"
	"github.com/ppiankov/factbot/internal/model"
	"github.com/ppiankov/factbot/internal/verify"
	"github.com/ppiankov/factbot/internal/worker"
)

// backends holds the analysis and verification clients shared by commands
type backends struct {
	provider llm.Provider
	pool     *worker.Pool
	analyzer *analysis.Analyzer
	verifier *verify.Client
}

func newBackends(ctx context.Context, cfg model.Config, logger *slog.Logger) (*backends, error) {
	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM, cfg.Proxy))
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}

	pool := worker.NewPool(cfg.LLM.Workers)
	pool.Start()

	return &backends{
		provider: provider,
		pool:     pool,
		analyzer: analysis.New(provider, pool, logger),
		verifier: verify.NewClient(cfg.Verification, cfg.Proxy, logger),
	}, nil
}

// Close stops the worker pool and releases the provider
func (b *backends) Close() {
	b.pool.Shutdown()
	_ = b.provider.Close()
}

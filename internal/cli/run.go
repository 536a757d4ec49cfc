package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factbot/internal/logging"
	"github.com/ppiankov/factbot/internal/model"
	"github.com/ppiankov/factbot/internal/pipeline"
	"github.com/ppiankov/factbot/internal/server"
	"github.com/ppiankov/factbot/internal/telegram"
	"github.com/ppiankov/factbot/internal/util"
	"github.com/ppiankov/factbot/internal/worker"
)

const (
	// Must exceed the long-poll timeout
	telegramTimeout = 90 * time.Second
	downloadTimeout = 5 * time.Minute
)

var runMode string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	Long: `Run connects to Telegram and processes messages until interrupted.

Updates are received by long polling unless --mode webhook is given, in
which case Telegram posts them to the HTTP server at telegram.webhook_url.
The HTTP server also serves /healthz and /readyz.

Example:
  factbot run
  factbot run --mode webhook`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runMode, "mode", "", "update mode: polling or webhook (overrides telegram.mode)")
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if runMode != "" {
		cfg.Telegram.Mode = runMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := os.MkdirAll(cfg.Storage.TempDir, 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	verified := checkVerification(ctx, b.verifier, logger)

	api, err := telegram.NewAPI(cfg.Telegram, util.NewHTTPClient(telegramTimeout, cfg.Proxy))
	if err != nil {
		return err
	}

	bot := telegram.New(api, telegram.Options{
		Mode:       cfg.Telegram.Mode,
		WebhookURL: cfg.Telegram.WebhookURL,
		Info:       telegram.Info{Version: version, Provider: b.provider.Name(), Limits: cfg.Limits},
		Limiter:    newLimiter(cfg.RateLimit),
		Downloader: telegram.NewDownloader(util.NewHTTPClient(downloadTimeout, cfg.Proxy), downloadCap(cfg.Limits)),
	}, logger)

	dispatcher := pipeline.NewDispatcher(b.analyzer, b.verifier, bot, pipeline.LimitsFromConfig(cfg), logger)

	logger.Info("starting factbot",
		"version", version,
		"username", bot.Username(),
		"mode", cfg.Telegram.Mode,
		"provider", b.provider.Name(),
		"workers", b.pool.Workers(),
	)

	errCh := make(chan error, 2)
	running := 1

	if cfg.Server.Enabled {
		var hook server.WebhookReceiver
		if cfg.Telegram.Mode == "webhook" {
			hook = bot
		}
		srv := server.New(cfg.Server.Addr, hook, logger)
		srv.SetVerified(verified)
		running++
		go func() { errCh <- srv.Run(ctx) }()
	}

	go func() { errCh <- bot.Serve(ctx, dispatcher) }()

	return waitAll(ctx, stop, errCh, running, logger)
}

// checkVerification calls the verification health check once. Failure is logged
// and the bot starts anyway.
func checkVerification(ctx context.Context, verifier healthChecker, logger *slog.Logger) bool {
	checkCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if !verifier.HealthCheck(checkCtx) {
		logger.Warn("verification service health check failed, continuing")
		return false
	}
	logger.Info("verification service is reachable")
	return true
}

// waitAll waits for n components. The first failure cancels the rest.
func waitAll(ctx context.Context, stop context.CancelFunc, errCh <-chan error, n int, logger *slog.Logger) error {
	var first error
	for i := 0; i < n; i++ {
		if err := <-errCh; err != nil {
			if first == nil {
				first = err
			}
			logger.Error("component failed", "error", err)
			stop()
		}
	}
	if first == nil && ctx.Err() != nil {
		logger.Info("shut down")
	}
	return first
}

// newLimiter returns nil when rate limiting is disabled
func newLimiter(cfg model.RateLimitConfig) telegram.Limiter {
	if !cfg.Enabled {
		return nil
	}
	return worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst, time.Duration(cfg.IdleTTL)*time.Second)
}

// downloadCap leaves room above the largest ceiling so that oversized files
// still reach the size check and get a precise message.
func downloadCap(limits model.LimitsConfig) int64 {
	largest := max(limits.MaxFileSizeMB, limits.MaxImageSizeMB, limits.MaxVideoSizeMB, limits.MaxAudioSizeMB)
	return int64(largest) * 2 * 1024 * 1024
}

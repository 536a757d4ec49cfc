package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factbot/internal/logging"
	"github.com/ppiankov/factbot/internal/model"
)

const healthTimeout = 30 * time.Second

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis and verification backends are reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// availabilityChecker is satisfied by llm.Provider
type availabilityChecker interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// healthChecker is satisfied by verify.Client
type healthChecker interface {
	HealthCheck(ctx context.Context) bool
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if errs := cfg.ValidateBackends(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n%w", errors.Join(errs...))
	}

	logger, closer, err := logging.New(model.LogConfig{Level: "ERROR", Format: cfg.Log.Format}, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
	defer cancel()

	b, err := newBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	return reportHealth(ctx, cmd.OutOrStdout(), b.provider, b.verifier)
}

// reportHealth prints one line per backend and fails if any is down
func reportHealth(ctx context.Context, w io.Writer, provider availabilityChecker, verifier healthChecker) error {
	var failed []string

	if provider.IsAvailable(ctx) {
		fmt.Fprintf(w, "✓ analysis backend (%s)\n", provider.Name())
	} else {
		fmt.Fprintf(w, "✗ analysis backend (%s)\n", provider.Name())
		failed = append(failed, "analysis")
	}

	if verifier.HealthCheck(ctx) {
		fmt.Fprintln(w, "✓ verification service")
	} else {
		fmt.Fprintln(w, "✗ verification service")
		failed = append(failed, "verification")
	}

	if len(failed) > 0 {
		return fmt.Errorf("unhealthy backends: %v", failed)
	}
	return nil
}

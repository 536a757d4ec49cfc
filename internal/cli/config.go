package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/factbot/internal/model"
)

const redacted = "********"

var forceInit bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage factbot configuration",
	Long: `Manage factbot configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (FACTBOT_*, TELEGRAM_BOT_TOKEN, GEMINI_API_KEY, VERA_API_URL, ...)
3. Config file (~/.factbot/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the effective configuration after merging defaults, the config file, .env and environment variables. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", used)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults and environment)\n\n")
		}

		return writeConfig(cmd.OutOrStdout(), redact(cfg))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.factbot/config.yaml, or at --config when given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("error finding home directory: %w", err)
			}
			path = filepath.Join(home, ".factbot", "config.yaml")
		}

		if err := initConfigFile(path, forceInit); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "\nSet secrets through the environment rather than the file:\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  export TELEGRAM_BOT_TOKEN=...\n  export GEMINI_API_KEY=...\n  export VERA_API_KEY=...\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
}

// initConfigFile writes the default configuration to path
func initConfigFile(path string, force bool) (err error) {
	if _, statErr := os.Stat(path); statErr == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite it", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	if _, err := fmt.Fprint(f, "# factbot configuration\n"+
		"#\n"+
		"# Configuration hierarchy (highest to lowest priority):\n"+
		"#   1. CLI flags\n"+
		"#   2. Environment variables (FACTBOT_*, TELEGRAM_BOT_TOKEN, GEMINI_API_KEY, VERA_API_URL, VERA_API_KEY)\n"+
		"#   3. This config file\n"+
		"#   4. Built-in defaults\n\n"); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	return writeConfig(f, model.DefaultConfig())
}

func writeConfig(w io.Writer, cfg model.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	return enc.Close()
}

// redact masks secrets for display
func redact(cfg model.Config) model.Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}
	cfg.Telegram.Token = mask(cfg.Telegram.Token)
	cfg.LLM.APIKey = mask(cfg.LLM.APIKey)
	cfg.Verification.APIKey = mask(cfg.Verification.APIKey)
	return cfg
}

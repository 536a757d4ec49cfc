package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factbot/internal/model"
)

var (
	cfgFile string
	verbose bool
	version = "v0.1.0"
)

// envAliases binds config keys to the variable names used by existing
// deployments, in addition to the FACTBOT_* names.
var envAliases = map[string]string{
	"telegram.token":          "TELEGRAM_BOT_TOKEN",
	"llm.api_key":             "GEMINI_API_KEY",
	"llm.model":               "GEMINI_MODEL",
	"verification.url":        "VERA_API_URL",
	"verification.api_key":    "VERA_API_KEY",
	"log.level":               "LOG_LEVEL",
	"limits.max_file_size_mb": "MAX_FILE_SIZE_MB",
	"storage.temp_dir":        "TEMP_DOWNLOAD_PATH",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "factbot",
	Short: "factbot - fact-checking chat bot",
	Long: `factbot checks the factual claims in messages sent to a Telegram bot.

Text, images, videos, audio, web links and documents are analyzed by a
generative model that extracts claims. The main claim is sent to a
verification service and the verdict is posted back to the chat.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command and /about
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "factbot %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factbot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the .env file, the config file and ENV variables
func initConfig() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	if err := configure(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		return
	}
	if used := viper.ConfigFileUsed(); used != "" && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
	}
}

// configure registers defaults and environment bindings on v and reads the
// config file. A missing default config file is not an error.
func configure(v *viper.Viper, file string) error {
	setDefaults(v, model.DefaultConfig())

	v.SetEnvPrefix("FACTBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, alias := range envAliases {
		envKey := "FACTBOT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, alias); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(home, ".factbot"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// loadConfig decodes the effective configuration
func loadConfig(v *viper.Viper) (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return model.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that environment variables are seen by
// Unmarshal even when no config file sets them.
func setDefaults(v *viper.Viper, d model.Config) {
	v.SetDefault("telegram.token", d.Telegram.Token)
	v.SetDefault("telegram.mode", d.Telegram.Mode)
	v.SetDefault("telegram.webhook_url", d.Telegram.WebhookURL)
	v.SetDefault("telegram.debug", d.Telegram.Debug)

	v.SetDefault("server.enabled", d.Server.Enabled)
	v.SetDefault("server.addr", d.Server.Addr)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.workers", d.LLM.Workers)

	v.SetDefault("verification.url", d.Verification.URL)
	v.SetDefault("verification.api_key", d.Verification.APIKey)
	v.SetDefault("verification.timeout", d.Verification.Timeout)
	v.SetDefault("verification.health_timeout", d.Verification.HealthTimeout)

	v.SetDefault("limits.max_file_size_mb", d.Limits.MaxFileSizeMB)
	v.SetDefault("limits.max_image_size_mb", d.Limits.MaxImageSizeMB)
	v.SetDefault("limits.max_video_size_mb", d.Limits.MaxVideoSizeMB)
	v.SetDefault("limits.max_audio_size_mb", d.Limits.MaxAudioSizeMB)

	v.SetDefault("formats.document", d.Formats.Document)

	v.SetDefault("storage.temp_dir", d.Storage.TempDir)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("rate_limit.idle_ttl", d.RateLimit.IdleTTL)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("proxy.http_proxy", d.Proxy.HTTPProxy)
	v.SetDefault("proxy.https_proxy", d.Proxy.HTTPSProxy)
	v.SetDefault("proxy.no_proxy", d.Proxy.NoProxy)
}

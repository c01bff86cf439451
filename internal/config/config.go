// Package config manages application configuration from default values,
// an optional config.yaml file, and environment variables. Operator
// credentials (BOT_TOKEN, ADMIN_ID) live in a .env file created by the
// launcher and are loaded into the environment before viper reads it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfiguration is returned when configuration cannot be loaded or fails validation.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g. BOT_LOG_LEVEL) or through
// config.yaml. The struct is built once at startup and never mutated.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	API       APIConfig       `mapstructure:"api"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// TelegramConfig holds the bot credentials. Token and AdminID are the two
// operator-supplied values; they must not still carry the launcher's
// placeholder sentinels.
type TelegramConfig struct {
	Token   string `mapstructure:"token"    validate:"required,ne=your_bot_token_here"`
	AdminID int64  `mapstructure:"admin_id" validate:"required,gt=0"`
}

// APIConfig describes the external likes API.
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Endpoint string        `mapstructure:"endpoint" validate:"required,startswith=/"`
	Timeout  time.Duration `mapstructure:"timeout"  validate:"required,min=1s,max=10m"`
	MinLikes int           `mapstructure:"min_likes" validate:"required,gt=0"`
	KeyFile  string        `mapstructure:"key_file" validate:"required"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig holds cron schedules for background tasks.
type SchedulerConfig struct {
	Timezone string                `mapstructure:"timezone" validate:"required"`
	Tasks    map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables or disables a single scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SentryConfig enables optional error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// MessagesConfig holds user-facing message strings.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome"         validate:"required"`
	Help           string `mapstructure:"help"            validate:"required"`
	AdminHelp      string `mapstructure:"admin_help"      validate:"required"`
	NotAuthorized  string `mapstructure:"not_authorized"  validate:"required"`
	GeneralError   string `mapstructure:"general_error"   validate:"required"`
	KeyNotSet      string `mapstructure:"key_not_set"     validate:"required"`
	NoIDs          string `mapstructure:"no_ids"          validate:"required"`
	AddIDUsage     string `mapstructure:"addid_usage"     validate:"required"`
	LikeUsage      string `mapstructure:"like_usage"      validate:"required"`
	BroadcastUsage string `mapstructure:"broadcast_usage" validate:"required"`
	InvalidGameID  string `mapstructure:"invalid_game_id" validate:"required"`
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory, and BOT_* environment variables. A .env file is loaded
// into the environment first so the launcher-managed credentials are visible.
//
// Returns the validated configuration or an error wrapping ErrConfiguration.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: failed to load .env: %v", ErrConfiguration, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials keep the plain names the launcher writes to .env.
	_ = v.BindEnv("telegram.token", "BOT_TOKEN")
	_ = v.BindEnv("telegram.admin_id", "ADMIN_ID")
	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")

	// Allow missing config file; defaults plus env are a complete configuration.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
		slog.Debug("config.yaml not found, using defaults and environment")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

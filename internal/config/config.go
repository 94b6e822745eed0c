package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env"`                // current application environment (local, dev, production etc)
	TelegramAPIToken string `mapstructure:"-"`                  // Telegram API token loaded from environment
	TelegramDebug    bool   `mapstructure:"telegram_debug"`     // verbose Telegram API logging
	QuestionBankPath string `mapstructure:"question_bank_path"` // path to JSON or YAML file with quiz levels
	Quiz             Quiz   `mapstructure:"quiz"`               // quiz engine section
	DB               DB     `mapstructure:"database"`           // database configuration section
	Redis            Redis  `mapstructure:"redis"`              // stats cache section
	HTTP             HTTP   `mapstructure:"http"`               // read-only HTTP API section
}

// Quiz contains quiz engine parameters.
type Quiz struct {
	FallbackLevel string        `mapstructure:"fallback_level"` // level used for unknown ids, empty disables fallback
	SinkTimeout   time.Duration `mapstructure:"sink_timeout"`   // upper bound of a single score recording
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Redis contains cache parameters.
type Redis struct {
	URL      string        `mapstructure:"-"`         // redis connection string loaded from environment
	StatsTTL time.Duration `mapstructure:"stats_ttl"` // lifetime of cached user stats
}

// HTTP contains API server parameters.
type HTTP struct {
	Addr string `mapstructure:"addr"` // listen address, empty disables the API
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads configuration using the given directory for config.yaml.
func LoadFrom(configDir string) (*Config, error) {
	// Values from .env never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("telegram_debug", false)
	v.SetDefault("question_bank_path", "assets/data/ipc_quiz.json")
	v.SetDefault("quiz.fallback_level", "level1")
	v.SetDefault("quiz.sink_timeout", "5s")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("redis.stats_ttl", "10m")
	v.SetDefault("http.addr", ":8080")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Redis.URL = v.GetString("redis_url")
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
	}

	return &cfg, nil
}

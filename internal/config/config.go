package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"zenboard/internal/zen"
)

// Config holds all configuration for the zenboard application.
type Config struct {
	// HTTP server
	ListenAddr string `mapstructure:"listen_addr"`

	// Redis record store
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// Concurrent fetch demonstration
	ZenBaseURL      string        `mapstructure:"zen_base_url"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`

	// Logging
	LogFormat string `mapstructure:"log_format"`
	LogLevel  string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - LISTEN_ADDR (optional, defaults to :8004)
//   - REDIS_ADDR (optional, defaults to localhost:6379)
//   - REDIS_PASSWORD (optional)
//   - REDIS_DB (optional, defaults to 0)
//   - ZEN_BASE_URL (optional, defaults to production)
//   - FETCH_TIMEOUT (optional, defaults to 5s)
//   - PROCESSING_DELAY (optional, defaults to 1s)
//   - LOG_FORMAT (optional, "json" or "text", defaults to json)
//   - LOG_LEVEL (optional, defaults to info)
func Load() (*Config, error) {
	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("listen_addr", ":8004")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("zen_base_url", zen.DefaultBaseURL)
	v.SetDefault("fetch_timeout", 5*time.Second)
	v.SetDefault("processing_delay", time.Second)
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.zenboard")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Bind environment variables
	v.BindEnv("listen_addr", "LISTEN_ADDR")
	v.BindEnv("redis_addr", "REDIS_ADDR")
	v.BindEnv("redis_password", "REDIS_PASSWORD")
	v.BindEnv("redis_db", "REDIS_DB")
	v.BindEnv("zen_base_url", "ZEN_BASE_URL")
	v.BindEnv("fetch_timeout", "FETCH_TIMEOUT")
	v.BindEnv("processing_delay", "PROCESSING_DELAY")
	v.BindEnv("log_format", "LOG_FORMAT")
	v.BindEnv("log_level", "LOG_LEVEL")

	// Unmarshal config into struct
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate values
	if config.ListenAddr == "" {
		return nil, fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if config.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR must not be empty")
	}
	if config.ZenBaseURL == "" {
		return nil, fmt.Errorf("ZEN_BASE_URL must not be empty")
	}
	if config.FetchTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be > 0")
	}
	if config.ProcessingDelay < 0 {
		return nil, fmt.Errorf("PROCESSING_DELAY must be >= 0")
	}
	if config.LogFormat != "json" && config.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", "json", "text", config.LogFormat)
	}

	return config, nil
}

// Package config provides Viper-based hierarchical configuration:
// defaults, then an optional config file, then SNAPSTAT_* environment
// variables. A .env file is loaded first when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"akazakov/snapstat/internal/logging"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	AI struct {
		Enabled          bool   `mapstructure:"enabled"`
		Model            string `mapstructure:"model"`
		APIKey           string `mapstructure:"api_key"`
		TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
		RetryBaseDelayMS int    `mapstructure:"retry_base_delay_ms"`
	} `mapstructure:"ai"`

	Categorization struct {
		BatchSize int `mapstructure:"batch_size"`
	} `mapstructure:"categorization"`

	Upload struct {
		MaxSizeBytes  int64 `mapstructure:"max_size_bytes"`
		MaxBatchFiles int   `mapstructure:"max_batch_files"`
	} `mapstructure:"upload"`

	Data struct {
		Directory string `mapstructure:"directory"`
		StoreFile string `mapstructure:"store_file"`
	} `mapstructure:"data"`
}

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, silently skipping when none exists.
func LoadEnv() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// Initialize builds the configuration from defaults, an optional
// config.yaml and the environment.
func Initialize() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.snapstat")
	v.AddConfigPath(".snapstat")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SNAPSTAT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The API key always comes from the unprefixed env var too.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.retry_base_delay_ms", 500)

	v.SetDefault("categorization.batch_size", 40)

	v.SetDefault("upload.max_size_bytes", 10*1024*1024)
	v.SetDefault("upload.max_batch_files", 10)

	v.SetDefault("data.directory", "")
	v.SetDefault("data.store_file", "snapstat.db")
}

func validate(config *Config) error {
	if config.Categorization.BatchSize <= 0 {
		return fmt.Errorf("categorization.batch_size must be positive")
	}
	if config.AI.RetryBaseDelayMS < 0 {
		return fmt.Errorf("ai.retry_base_delay_ms must not be negative")
	}
	if config.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload.max_size_bytes must be positive")
	}
	return nil
}

// NewLogger builds the application logger from the config.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	MaxUploadBytes    int64         // Largest accepted route file
	ExtractionTimeout time.Duration // Wall-clock budget for one extraction

	RateLimitRequests int
	RateLimitWindow   time.Duration

	TuningFile string // Optional preset file used as the default profile
}

// Load reads configuration from the environment, optionally overlaid by the file named
// in CONFIG_FILE (.env, YAML, TOML or JSON). Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		DBPath:            v.GetString("DB_PATH"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),
		ExtractionTimeout: v.GetDuration("EXTRACTION_TIMEOUT"),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		TuningFile:        v.GetString("TUNING_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":8080")
	v.SetDefault("DB_PATH", "./data/routes/routes.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20) // 32MB
	v.SetDefault("EXTRACTION_TIMEOUT", "30s")
	v.SetDefault("RATE_LIMIT_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("TUNING_FILE", "")
}

func (c *Config) validate() error {
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.ExtractionTimeout <= 0 {
		return errors.New("EXTRACTION_TIMEOUT must be positive")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

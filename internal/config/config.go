package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/xob0t/GoStego/pkg/imageio"
)

// maxUploadMB caps GOSTEGO_MAX_UPLOAD_MB at 4 GiB.
const maxUploadMB = 4096

// Config stores all configuration for the application.
type Config struct {
	LogLevel     string
	Port         string
	OutputFormat imageio.Format
	MaxUploadMB  int64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (useful for local development)
	godotenv.Load()

	cfg := &Config{
		LogLevel: getenv("GOSTEGO_LOG_LEVEL", "info"),
		Port:     getenv("GOSTEGO_PORT", "8080"),
	}

	format, err := imageio.ParseFormat(getenv("GOSTEGO_OUTPUT_FORMAT", "png"))
	if err != nil {
		return nil, fmt.Errorf("GOSTEGO_OUTPUT_FORMAT: %w", err)
	}
	cfg.OutputFormat = format

	maxUpload, err := strconv.ParseInt(getenv("GOSTEGO_MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("GOSTEGO_MAX_UPLOAD_MB: %w", err)
	}
	cfg.MaxUploadMB = maxUpload

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the tools cannot run with.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.MaxUploadMB <= 0 || c.MaxUploadMB > maxUploadMB {
		return fmt.Errorf("max upload size must be between 1 and %d MB, got %d", maxUploadMB, c.MaxUploadMB)
	}
	if _, err := imageio.ParseFormat(string(c.OutputFormat)); err != nil {
		return err
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

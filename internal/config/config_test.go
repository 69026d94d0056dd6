package config

import (
	"testing"

	"github.com/xob0t/GoStego/pkg/imageio"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOSTEGO_LOG_LEVEL", "")
	t.Setenv("GOSTEGO_PORT", "")
	t.Setenv("GOSTEGO_OUTPUT_FORMAT", "")
	t.Setenv("GOSTEGO_MAX_UPLOAD_MB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.OutputFormat != imageio.PNG {
		t.Errorf("OutputFormat = %q, want png", cfg.OutputFormat)
	}
	if cfg.MaxUploadBytes() != 32<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes(), 32<<20)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOSTEGO_LOG_LEVEL", "debug")
	t.Setenv("GOSTEGO_PORT", "9090")
	t.Setenv("GOSTEGO_OUTPUT_FORMAT", "tiff")
	t.Setenv("GOSTEGO_MAX_UPLOAD_MB", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.Port != "9090" || cfg.OutputFormat != imageio.TIFF || cfg.MaxUploadMB != 4 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsLossyOutput(t *testing.T) {
	t.Setenv("GOSTEGO_OUTPUT_FORMAT", "jpeg")

	if _, err := Load(); err == nil {
		t.Error("expected error for lossy output format")
	}
}

func TestConfigValidation(t *testing.T) {
	valid := Config{LogLevel: "info", Port: "8080", OutputFormat: imageio.PNG, MaxUploadMB: 1}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, true},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true},
		{"zero upload limit", func(c *Config) { c.MaxUploadMB = 0 }, true},
		{"largest upload limit", func(c *Config) { c.MaxUploadMB = 4096 }, false},
		{"upload limit past 4 GiB", func(c *Config) { c.MaxUploadMB = 4097 }, true},
		{"upload limit that overflows bytes", func(c *Config) { c.MaxUploadMB = 1 << 50 }, true},
		{"unknown format", func(c *Config) { c.OutputFormat = "gif" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

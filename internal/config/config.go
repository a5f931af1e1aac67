package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service settings, populated from environment variables
// with an optional YAML overrides file (CONFIG_FILE).
type Config struct {
	CSVURL  string
	CSVFile string

	HTTPAddr  string
	LogLevel  string
	LogFormat string

	IconBaseURL      string
	IconProbeTimeout time.Duration

	// RefreshCron, when set, re-ingests on a cron schedule ("*/15 * * * *").
	RefreshCron string

	ShutdownTimeout time.Duration
}

// fileConfig is the YAML shape of the overrides file. Durations are strings
// in Go duration syntax ("2.5s").
type fileConfig struct {
	CSVURL           string `yaml:"csv_url"`
	CSVFile          string `yaml:"csv_file"`
	HTTPAddr         string `yaml:"http_addr"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	IconBaseURL      string `yaml:"icon_base_url"`
	IconProbeTimeout string `yaml:"icon_probe_timeout"`
	RefreshCron      string `yaml:"refresh_cron"`
	ShutdownTimeout  string `yaml:"shutdown_timeout"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, then merges the CONFIG_FILE overrides if one is configured.
func Load() (*Config, error) {
	probeTimeout, err := envDuration("ICON_PROBE_TIMEOUT", 2500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CSVURL:           os.Getenv("CSV_URL"),
		CSVFile:          os.Getenv("CSV_FILE"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		IconBaseURL:      envOrDefault("ICON_BASE_URL", "https://static.my-event-map.net/icons"),
		IconProbeTimeout: probeTimeout,
		RefreshCron:      os.Getenv("REFRESH_CRON"),
		ShutdownTimeout:  shutdownTimeout,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if cfg.CSVURL == "" && cfg.CSVFile == "" {
		return nil, errors.New("one of CSV_URL or CSV_FILE is required")
	}
	if cfg.IconProbeTimeout <= 0 {
		return nil, errors.New("ICON_PROBE_TIMEOUT must be positive")
	}
	if cfg.IconBaseURL == "" {
		return nil, errors.New("ICON_BASE_URL is required")
	}

	return cfg, nil
}

// applyFile overlays non-empty fields from a YAML file onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIfPresent(&cfg.CSVURL, f.CSVURL)
	setIfPresent(&cfg.CSVFile, f.CSVFile)
	setIfPresent(&cfg.HTTPAddr, f.HTTPAddr)
	setIfPresent(&cfg.LogLevel, f.LogLevel)
	setIfPresent(&cfg.LogFormat, f.LogFormat)
	setIfPresent(&cfg.IconBaseURL, f.IconBaseURL)
	setIfPresent(&cfg.RefreshCron, f.RefreshCron)

	if f.IconProbeTimeout != "" {
		d, err := time.ParseDuration(f.IconProbeTimeout)
		if err != nil {
			return fmt.Errorf("invalid icon_probe_timeout: %w", err)
		}
		cfg.IconProbeTimeout = d
	}
	if f.ShutdownTimeout != "" {
		d, err := time.ParseDuration(f.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

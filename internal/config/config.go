// Package config loads and normalises examdeck configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultListen         = "127.0.0.1:4173"
	defaultAPIBase        = "http://127.0.0.1:8880"
	defaultAssets         = "ui"
	defaultFiltersPath    = "update-filters"
	defaultExamsPath      = "get-exams"
	defaultTimeoutSeconds = 8
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxFiles    = 5

	// APIBaseEnv overrides api.base_url when set.
	APIBaseEnv = "EXAMDECK_API_BASE"
)

// ServerConfig configures the dev server listener and the static assets it serves.
type ServerConfig struct {
	Listen string `json:"listen" yaml:"listen"`
	Assets string `json:"assets" yaml:"assets"`
}

// APIConfig locates the update-filters and get-exams endpoints.
type APIConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url"`
	FiltersPath    string `json:"filters_path" yaml:"filters_path"`
	ExamsPath      string `json:"exams_path" yaml:"exams_path"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// LogConfig controls verbosity and the optional rotating log file.
type LogConfig struct {
	Level     string `json:"level" yaml:"level"`
	Dir       string `json:"dir" yaml:"dir"`
	MaxSizeMB int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxFiles  int    `json:"max_files" yaml:"max_files"`
}

// Config is the combined runtime configuration.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	API    APIConfig    `json:"api" yaml:"api"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a JSON or YAML (by .yaml/.yml extension) config file, applies
// defaults and the environment override, and validates the result.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config: %w", err)
			}
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config: %w", err)
			}
		}
	}
	if base := strings.TrimSpace(os.Getenv(APIBaseEnv)); base != "" {
		cfg.API.BaseURL = base
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Server.Listen) == "" {
		c.Server.Listen = defaultListen
	}
	if strings.TrimSpace(c.Server.Assets) == "" {
		c.Server.Assets = defaultAssets
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = defaultAPIBase
	}
	c.API.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.API.BaseURL), "/")
	if strings.TrimSpace(c.API.FiltersPath) == "" {
		c.API.FiltersPath = defaultFiltersPath
	}
	if strings.TrimSpace(c.API.ExamsPath) == "" {
		c.API.ExamsPath = defaultExamsPath
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Log.MaxFiles <= 0 {
		c.Log.MaxFiles = defaultLogMaxFiles
	}
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base_url %q", c.API.BaseURL)
	}
	for name, p := range map[string]string{"filters_path": c.API.FiltersPath, "exams_path": c.API.ExamsPath} {
		if strings.ContainsAny(p, "?# ") {
			return fmt.Errorf("invalid api %s %q", name, p)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default endpoints and identity. The API base URL points at the trading
// backend, which is an external service; nothing in this repo implements it.
const (
	DefaultAPIBaseURL = "http://localhost:3000/api"
	DefaultAppName    = "NextGen Forex Systems"
	DefaultAppVersion = "1.0.0"
)

// AppConfig names the product for display and User-Agent purposes.
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LogConfig mirrors pkg/logger.Config in file form.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// CheckoutConfig tunes the simulated payment gateway and the lifetime of the
// pending checkout payload in the vault.
type CheckoutConfig struct {
	GatewayDelayMs  int `yaml:"gateway_delay_ms"`
	PendingTTLHours int `yaml:"pending_ttl_hours"`
}

// DashboardConfig controls the terminal dashboard refresh cadence.
type DashboardConfig struct {
	RefreshSeconds int      `yaml:"refresh_seconds"`
	TickerPairs    []string `yaml:"ticker_pairs"`
}

// Config is the resolved application configuration.
type Config struct {
	App            AppConfig       `yaml:"app"`
	APIBaseURL     string          `yaml:"api_base_url"`
	RequestTimeout time.Duration   `yaml:"-"`
	DataDir        string          `yaml:"data_dir"`
	VaultKey       string          `yaml:"-"` // env only, never written to disk
	Log            LogConfig       `yaml:"log"`
	Checkout       CheckoutConfig  `yaml:"checkout"`
	Dashboard      DashboardConfig `yaml:"dashboard"`

	// RequestTimeoutSeconds is the YAML-facing form of RequestTimeout.
	// Zero keeps the transport default.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	home, _ := os.UserHomeDir()
	dataDir := ".fxterm"
	if home != "" {
		dataDir = filepath.Join(home, ".fxterm")
	}
	return &Config{
		App: AppConfig{
			Name:    DefaultAppName,
			Version: DefaultAppVersion,
		},
		APIBaseURL: DefaultAPIBaseURL,
		DataDir:    dataDir,
		Log: LogConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Checkout: CheckoutConfig{
			GatewayDelayMs:  2000,
			PendingTTLHours: 24,
		},
		Dashboard: DashboardConfig{
			RefreshSeconds: 30,
			TickerPairs:    []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "XAUUSD"},
		},
	}
}

// Load reads the YAML file at path (optional), then applies environment
// overrides. Priority: env > file > defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}
	if cfg.Checkout.GatewayDelayMs <= 0 {
		cfg.Checkout.GatewayDelayMs = 2000
	}
	if cfg.Checkout.PendingTTLHours <= 0 {
		cfg.Checkout.PendingTTLHours = 24
	}
	if cfg.Dashboard.RefreshSeconds <= 0 {
		cfg.Dashboard.RefreshSeconds = 30
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FXTERM_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("FXTERM_APP_NAME"); v != "" {
		cfg.App.Name = v
	}
	if v := os.Getenv("FXTERM_APP_VERSION"); v != "" {
		cfg.App.Version = v
	}
	if v := os.Getenv("FXTERM_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FXTERM_VAULT_KEY"); v != "" {
		cfg.VaultKey = v
	}
	if v := os.Getenv("FXTERM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FXTERM_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("FXTERM_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RequestTimeoutSeconds = n
		}
	}
}

// VaultPath is where the badger credential vault lives.
func (c *Config) VaultPath() string {
	return filepath.Join(c.DataDir, "vault")
}

// StatePath is where the persisted trading store documents live.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state")
}

// Package config loads the YAML configuration for the launch watcher.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	General   GeneralConfig   `yaml:"general"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Listener  ListenerConfig  `yaml:"listener"`
	Filters   FiltersConfig   `yaml:"filters"`
	Stats     StatsConfig     `yaml:"stats"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Intel     IntelConfig     `yaml:"intel"`
	History   HistoryConfig   `yaml:"history"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type GeneralConfig struct {
	DryRun    bool   `yaml:"dry_run"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json|text
}

type EndpointsConfig struct {
	WSURL        string  `yaml:"ws_url"`
	RPCURL       string  `yaml:"rpc_url"`
	PumpAPIURL   string  `yaml:"pump_api_url"`
	RPCRateRPS   float64 `yaml:"rpc_rate_rps"`
	RPCRateBurst int     `yaml:"rpc_rate_burst"`
}

type ListenerConfig struct {
	MatchString    string `yaml:"match_string"`
	CreatorAddress string `yaml:"creator_address"`
}

type FiltersConfig struct {
	Symbol    SymbolFilterConfig    `yaml:"symbol"`
	Denylist  DenylistFilterConfig  `yaml:"denylist"`
	Security  SecurityFilterConfig  `yaml:"security"`
	Wallet    WalletFilterConfig    `yaml:"wallet"`
	Liquidity LiquidityFilterConfig `yaml:"liquidity"`
}

type SymbolFilterConfig struct {
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled"`
}

type DenylistFilterConfig struct {
	Enabled  *bool    `yaml:"enabled"`
	Creators []string `yaml:"creators"`
	Mints    []string `yaml:"mints"`
}

type SecurityFilterConfig struct {
	Enabled          *bool    `yaml:"enabled"`
	NameBlacklist    []string `yaml:"name_blacklist"`
	PassCooldownSec  int      `yaml:"pass_cooldown_sec"`
	CooldownCapacity int      `yaml:"cooldown_capacity"`
}

type WalletFilterConfig struct {
	Enabled       *bool `yaml:"enabled"`
	MinTxCount    int   `yaml:"min_tx_count"`
	MinAgeMinutes int   `yaml:"min_age_minutes"`
}

type LiquidityFilterConfig struct {
	Enabled *bool   `yaml:"enabled"`
	MinSOL  float64 `yaml:"min_sol"`
	MaxSOL  float64 `yaml:"max_sol"`
}

// StageEnabled resolves an enable flag, defaulting to true.
func StageEnabled(flag *bool) bool {
	return flag == nil || *flag
}

type StatsConfig struct {
	WindowMs      int64 `yaml:"window_ms"`
	SweepEverySec int   `yaml:"sweep_every_sec"`
}

type AlertsConfig struct {
	LaunchThreshold int               `yaml:"launch_threshold"`
	CooldownSec     int               `yaml:"cooldown_sec"`
	BudgetWindowSec int               `yaml:"budget_window_sec"`
	BudgetCapacity  int               `yaml:"budget_capacity"`
	WebhookURL      string            `yaml:"webhook_url"`
	WebhookHeaders  map[string]string `yaml:"webhook_headers"`
}

type IntelConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	QueueSize int    `yaml:"queue_size"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads and parses a YAML configuration file. Environment variables
// referenced as ${VAR} in the file are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	if cfg.General.LogFormat == "" {
		cfg.General.LogFormat = "json"
	}
	if cfg.Endpoints.WSURL == "" {
		cfg.Endpoints.WSURL = "wss://api.mainnet-beta.solana.com"
	}
	if cfg.Endpoints.RPCURL == "" {
		cfg.Endpoints.RPCURL = "https://api.mainnet-beta.solana.com"
	}
	if cfg.Endpoints.PumpAPIURL == "" {
		cfg.Endpoints.PumpAPIURL = "https://frontend-api.pump.fun"
	}
	if cfg.Endpoints.RPCRateRPS == 0 {
		cfg.Endpoints.RPCRateRPS = 5
	}
	if cfg.Endpoints.RPCRateBurst == 0 {
		cfg.Endpoints.RPCRateBurst = 5
	}
	if cfg.Filters.Security.PassCooldownSec == 0 {
		cfg.Filters.Security.PassCooldownSec = 300
	}
	if cfg.Filters.Security.CooldownCapacity == 0 {
		cfg.Filters.Security.CooldownCapacity = 1000
	}
	if cfg.Filters.Wallet.MinTxCount == 0 {
		cfg.Filters.Wallet.MinTxCount = 3
	}
	if cfg.Filters.Wallet.MinAgeMinutes == 0 {
		cfg.Filters.Wallet.MinAgeMinutes = 15
	}
	if cfg.Filters.Liquidity.MinSOL == 0 {
		cfg.Filters.Liquidity.MinSOL = 0.5
	}
	if cfg.Filters.Liquidity.MaxSOL == 0 {
		cfg.Filters.Liquidity.MaxSOL = 100
	}
	if cfg.Stats.WindowMs == 0 {
		cfg.Stats.WindowMs = 600_000
	}
	if cfg.Stats.SweepEverySec == 0 {
		cfg.Stats.SweepEverySec = 60
	}
	if cfg.Alerts.LaunchThreshold == 0 {
		cfg.Alerts.LaunchThreshold = 70
	}
	if cfg.Alerts.CooldownSec == 0 {
		cfg.Alerts.CooldownSec = 900
	}
	if cfg.Alerts.BudgetWindowSec == 0 {
		cfg.Alerts.BudgetWindowSec = 600
	}
	if cfg.Alerts.BudgetCapacity == 0 {
		cfg.Alerts.BudgetCapacity = 6
	}
	if cfg.Intel.QueueSize == 0 {
		cfg.Intel.QueueSize = 256
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "alerted_tokens.json"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
}

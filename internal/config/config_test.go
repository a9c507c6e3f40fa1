package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "general:\n  dry_run: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.General.DryRun {
		t.Error("dry_run not parsed")
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("log_level = %q, want info", cfg.General.LogLevel)
	}
	if cfg.Stats.WindowMs != 600_000 {
		t.Errorf("window_ms = %d, want 600000", cfg.Stats.WindowMs)
	}
	if cfg.Alerts.LaunchThreshold != 70 {
		t.Errorf("launch_threshold = %d, want 70", cfg.Alerts.LaunchThreshold)
	}
	if cfg.Alerts.BudgetCapacity != 6 {
		t.Errorf("budget_capacity = %d, want 6", cfg.Alerts.BudgetCapacity)
	}
	if cfg.Filters.Liquidity.MinSOL != 0.5 || cfg.Filters.Liquidity.MaxSOL != 100 {
		t.Errorf("liquidity bounds = %v..%v, want 0.5..100",
			cfg.Filters.Liquidity.MinSOL, cfg.Filters.Liquidity.MaxSOL)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_URL", "https://hooks.example.com/abc")

	path := writeConfig(t, "alerts:\n  webhook_url: ${TEST_WEBHOOK_URL}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Alerts.WebhookURL != "https://hooks.example.com/abc" {
		t.Errorf("webhook_url = %q", cfg.Alerts.WebhookURL)
	}
}

func TestLoad_StageFlags(t *testing.T) {
	path := writeConfig(t, `
filters:
  wallet:
    enabled: false
  liquidity:
    min_sol: 1.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if StageEnabled(cfg.Filters.Wallet.Enabled) {
		t.Error("wallet stage should be disabled")
	}
	// Omitted flags default to enabled.
	if !StageEnabled(cfg.Filters.Symbol.Enabled) {
		t.Error("symbol stage should default to enabled")
	}
	if !StageEnabled(cfg.Filters.Liquidity.Enabled) {
		t.Error("liquidity stage should default to enabled")
	}
	if cfg.Filters.Liquidity.MinSOL != 1.5 {
		t.Errorf("min_sol = %v, want 1.5", cfg.Filters.Liquidity.MinSOL)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load on missing file should error")
	}

	path := writeConfig(t, "general: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("Load on invalid YAML should error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Endpoints.WSURL == "" || cfg.Endpoints.RPCURL == "" {
		t.Error("default endpoints missing")
	}
	if cfg.Alerts.CooldownSec != 900 {
		t.Errorf("cooldown_sec = %d, want 900", cfg.Alerts.CooldownSec)
	}
	if cfg.History.Path == "" {
		t.Error("history path missing")
	}
}

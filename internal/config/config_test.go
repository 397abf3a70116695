package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "simulation:\n  sims: 5000\n  seed: 7\nrisk:\n  alpha: 0.99\n  pay_table:\n    \"14\": 100\n    \"13\": 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Simulation.Sims != 5000 {
		t.Errorf("sims = %d, want 5000", cfg.Simulation.Sims)
	}
	if cfg.Simulation.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Simulation.Seed)
	}
	if cfg.Risk.Alpha != 0.99 {
		t.Errorf("alpha = %g, want 0.99", cfg.Risk.Alpha)
	}
	if cfg.Risk.PayTable["14"] != 100 {
		t.Errorf("pay_table[14] = %g, want 100", cfg.Risk.PayTable["14"])
	}
	if cfg.Data.BaseDir != "data/out" {
		t.Errorf("base_dir default = %q, want data/out", cfg.Data.BaseDir)
	}
	if cfg.Data.ReturnsFile != "portfolio_returns_eval.csv" {
		t.Errorf("returns_file default = %q", cfg.Data.ReturnsFile)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level default = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_InvalidAlphaFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("risk:\n  alpha: 1.5\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error for alpha=1.5")
	}
	if !strings.Contains(err.Error(), "risk.alpha") {
		t.Errorf("error should mention risk.alpha, got %v", err)
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("empty config must fail validation")
	}
	for _, fragment := range []string{"app.environment", "simulation.sims", "database.max_open_conns"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("validation error should mention %s, got %v", fragment, err)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %s", cfg.Server.Addr)
	}
	if cfg.ClassifierTimeout() != 10*time.Second {
		t.Errorf("timeout = %v", cfg.ClassifierTimeout())
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
data:
  dir: /var/data/finance
  month_layout: Jan-06
classifier:
  timeout_seconds: 5
agent:
  active_provider: gemini
  model: gemini-2.0-flash
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %s", cfg.Server.Addr)
	}
	if cfg.Data.MonthLayout != "Jan-06" {
		t.Errorf("month layout = %s", cfg.Data.MonthLayout)
	}
	if cfg.ClassifierTimeout() != 5*time.Second {
		t.Errorf("timeout = %v", cfg.ClassifierTimeout())
	}
	if cfg.Agent.Model != "gemini-2.0-flash" {
		t.Errorf("agent model = %s", cfg.Agent.Model)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

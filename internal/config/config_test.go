package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Validation.ConfidenceThreshold != 80 {
		t.Errorf("confidence_threshold = %d, want 80", cfg.Validation.ConfidenceThreshold)
	}
	if !cfg.Validation.ValidatorAgentEnabled {
		t.Error("validator_agent_enabled = false, want true")
	}
	if cfg.Folder.Concurrency != 1 {
		t.Errorf("concurrency = %d, want 1", cfg.Folder.Concurrency)
	}
	if cfg.Folder.FileLimit != 50 {
		t.Errorf("file_limit = %d, want 50", cfg.Folder.FileLimit)
	}
}

func TestLoadTOMLOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "arbiter.toml", `
[engine]
provider = "ollama"
model = "llama3"

[validation]
confidence_threshold = 60
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Engine.Provider != "ollama" || cfg.Engine.Model != "llama3" {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Validation.ConfidenceThreshold != 60 {
		t.Errorf("confidence_threshold = %d, want 60", cfg.Validation.ConfidenceThreshold)
	}
	// Untouched sections keep their defaults.
	if cfg.Folder.Concurrency != 1 {
		t.Errorf("concurrency = %d, want default 1", cfg.Folder.Concurrency)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "arbiter.yaml", `
engine:
  provider: openai
folder:
  concurrency: 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Engine.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.Engine.Provider)
	}
	if cfg.Folder.Concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", cfg.Folder.Concurrency)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "arbiter.json", `{"output": {"format": "json", "color": false}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "json" || cfg.Output.Color {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	path := writeConfig(t, "arbiter.toml", `
[validation]
confidence_threshold = 150
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted confidence_threshold 150")
	}
}

func TestLoadRejectsZeroConcurrency(t *testing.T) {
	path := writeConfig(t, "arbiter.toml", `
[folder]
concurrency = 0
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted concurrency 0")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() succeeded on missing file")
	}
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Engine.Provider != "anthropic" {
		t.Errorf("provider = %q, want default anthropic", cfg.Engine.Provider)
	}
}

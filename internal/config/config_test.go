package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DILIGENCE_SCANNER_CONFIG", "")
	t.Setenv("COHERE_API_KEY", "")
	t.Setenv("COHERE_MODEL", "")
	t.Setenv("COHERE_ENDPOINT", "")

	cfg := Load("")

	if cfg.Model.Model != "command-r-plus" {
		t.Errorf("Model = %q, want command-r-plus", cfg.Model.Model)
	}
	if cfg.Rules.AUMTolerancePct != 0.03 {
		t.Errorf("AUMTolerancePct = %v, want 0.03", cfg.Rules.AUMTolerancePct)
	}
	if cfg.Rules.MgmtFeeAbsPct != 0.25 {
		t.Errorf("MgmtFeeAbsPct = %v, want 0.25", cfg.Rules.MgmtFeeAbsPct)
	}
	if cfg.Rules.TargetIRRAbsPct != 2.0 {
		t.Errorf("TargetIRRAbsPct = %v, want 2.0", cfg.Rules.TargetIRRAbsPct)
	}
	if !cfg.Run.UseCohere {
		t.Error("UseCohere should default to true")
	}
	if len(cfg.Run.Rules) != 2 || cfg.Run.Rules[0] != "numeric_mismatch" || cfg.Run.Rules[1] != "definition_drift" {
		t.Errorf("Rules = %v, want [numeric_mismatch definition_drift]", cfg.Run.Rules)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	t.Setenv("COHERE_MODEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
model:
  model: command-r
rules:
  aumTolerancePct: 0.05
run:
  useCohere: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)

	if cfg.Model.Model != "command-r" {
		t.Errorf("Model = %q, want command-r", cfg.Model.Model)
	}
	if cfg.Rules.AUMTolerancePct != 0.05 {
		t.Errorf("AUMTolerancePct = %v, want 0.05", cfg.Rules.AUMTolerancePct)
	}
	if cfg.Run.UseCohere {
		t.Error("useCohere: false in YAML should survive the merge")
	}
	// Untouched keys keep their defaults.
	if cfg.Rules.MgmtFeeAbsPct != 0.25 {
		t.Errorf("MgmtFeeAbsPct = %v, want default 0.25", cfg.Rules.MgmtFeeAbsPct)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DILIGENCE_SCANNER_CONFIG", "")
	t.Setenv("COHERE_API_KEY", "test-key")
	t.Setenv("COHERE_MODEL", "command-r-plus-08-2024")
	t.Setenv("COHERE_ENDPOINT", "https://example.test/v1/chat")

	cfg := Load("")

	if cfg.Model.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want test-key", cfg.Model.APIKey)
	}
	if cfg.Model.Model != "command-r-plus-08-2024" {
		t.Errorf("Model = %q, want command-r-plus-08-2024", cfg.Model.Model)
	}
	if cfg.Model.Endpoint != "https://example.test/v1/chat" {
		t.Errorf("Endpoint = %q, want https://example.test/v1/chat", cfg.Model.Endpoint)
	}
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv("COHERE_MODEL", "")

	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	if cfg.Model.Model != "command-r-plus" {
		t.Errorf("Model = %q, want default command-r-plus", cfg.Model.Model)
	}
}

package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Validates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestConfig_ValidateRejectsBadLearningRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackgroundLearningRate = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero learning rate")
	}

	cfg.BackgroundLearningRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for learning rate above 1")
	}
}

func TestConfig_ValidateRejectsNonPositiveAngleBins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AngleBins = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero angle_bins")
	}
}

func TestLoadConfig_WrongExtensionRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for non-.json extension")
	}
}

func TestLoadConfig_PartialOverrideKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"cluster_eps_mm": 123.5}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ClusterEpsMM != 123.5 {
		t.Errorf("expected overridden cluster_eps_mm, got %f", cfg.ClusterEpsMM)
	}
	if cfg.AngleBins != DefaultConfig().AngleBins {
		t.Errorf("expected default angle_bins to survive a partial override, got %d", cfg.AngleBins)
	}
}

func TestLoadConfig_InvalidResultRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"angle_bins": -5}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for negative angle_bins")
	}
}

func TestLoadConfigYAML_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "max_match_distance_mm: 999\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigYAML(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxMatchDistanceMM != 999 {
		t.Errorf("expected overridden max_match_distance_mm, got %f", cfg.MaxMatchDistanceMM)
	}
}

package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CollabWeight != 0.6 || cfg.ContentWeight != 0.4 {
		t.Errorf("similarity weights = %v/%v, want 0.6/0.4", cfg.CollabWeight, cfg.ContentWeight)
	}
	if cfg.TokenWeight != 0.7 || cfg.LevelWeight != 0.3 {
		t.Errorf("content weights = %v/%v, want 0.7/0.3", cfg.TokenWeight, cfg.LevelWeight)
	}
	if cfg.PopularityWeight != 0.05 {
		t.Errorf("PopularityWeight = %v, want 0.05", cfg.PopularityWeight)
	}
	if cfg.AvailabilityPenalty != 0.85 {
		t.Errorf("AvailabilityPenalty = %v, want 0.85", cfg.AvailabilityPenalty)
	}
	if cfg.TrendingAvailabilityPenalty != 0.9 {
		t.Errorf("TrendingAvailabilityPenalty = %v, want 0.9", cfg.TrendingAvailabilityPenalty)
	}
	if cfg.Parallelism != 1 {
		t.Errorf("Parallelism = %d, want 1", cfg.Parallelism)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := "collab_weight: 0.8\nparallelism: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromYAML(path)
	if err != nil {
		t.Fatalf("LoadConfigFromYAML: %v", err)
	}
	if cfg.CollabWeight != 0.8 {
		t.Errorf("CollabWeight = %v, want 0.8", cfg.CollabWeight)
	}
	if cfg.Parallelism != 4 {
		t.Errorf("Parallelism = %d, want 4", cfg.Parallelism)
	}
	// 未覆盖字段保持默认
	if cfg.ContentWeight != 0.4 {
		t.Errorf("ContentWeight = %v, want default 0.4", cfg.ContentWeight)
	}
	if cfg.TrendingAvailabilityPenalty != 0.9 {
		t.Errorf("TrendingAvailabilityPenalty = %v, want default 0.9", cfg.TrendingAvailabilityPenalty)
	}
}

func TestLoadConfigFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	if err := os.WriteFile(path, []byte(`{"availability_penalty": 0.7}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromJSON(path)
	if err != nil {
		t.Fatalf("LoadConfigFromJSON: %v", err)
	}
	if cfg.AvailabilityPenalty != 0.7 {
		t.Errorf("AvailabilityPenalty = %v, want 0.7", cfg.AvailabilityPenalty)
	}
	if cfg.CollabWeight != 0.6 {
		t.Errorf("CollabWeight = %v, want default 0.6", cfg.CollabWeight)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfigFromYAML(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfigFromYAML(absent) = nil error, want error")
	}
}

func TestWithOptions(t *testing.T) {
	custom := DefaultConfig()
	custom.CollabWeight = 1.0
	custom.ContentWeight = 0.0

	e := newTestEngine(WithConfig(custom), WithParallelism(2))
	if e.cfg.CollabWeight != 1.0 {
		t.Errorf("CollabWeight = %v, want 1.0", e.cfg.CollabWeight)
	}
	if e.cfg.Parallelism != 2 {
		t.Errorf("Parallelism = %d, want 2", e.cfg.Parallelism)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/sphfluid/internal/fluid"
)

func writeFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0644)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulation.SmoothingRadius != 1 {
		t.Errorf("expected h 1, got %f", cfg.Simulation.SmoothingRadius)
	}
	if cfg.Simulation.Width != fluid.DefaultWidth || cfg.Simulation.Height != fluid.DefaultHeight {
		t.Errorf("unexpected domain %vx%v", cfg.Simulation.Width, cfg.Simulation.Height)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if _, err := fluid.New(cfg.Simulation.SmoothingRadius, cfg.Options()); err != nil {
		t.Errorf("default options rejected: %v", err)
	}
}

func TestOptionsMatchDefaults(t *testing.T) {
	got := DefaultConfig().Options()
	want := fluid.DefaultOptions()
	if got != want {
		t.Errorf("options = %+v, want %+v", got, want)
	}
}

func TestFrameTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.FPS = 50
	if got := cfg.FrameTime(); got != 0.02 {
		t.Errorf("expected 1/fps, got %v", got)
	}
	cfg.Run.FrameTime = 0.1
	if got := cfg.FrameTime(); got != 0.1 {
		t.Errorf("expected explicit frame time, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
	}{
		{"zero render width", func(c *Config) { c.Render.Width = 0 }},
		{"negative render height", func(c *Config) { c.Render.Height = -1 }},
		{"zero fps", func(c *Config) { c.Render.FPS = 0 }},
		{"negative duration", func(c *Config) { c.Run.Duration = -1 }},
		{"negative frame time", func(c *Config) { c.Run.FrameTime = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.tweak(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("dambreak")
	cfg.Simulation.Workers = 4
	cfg.Simulation.UseGrid = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := writeFile(path, "simulation:\n  gravity: 3\nscene: NEW_P M 1 END_P\n"); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Simulation.Gravity != 3 {
		t.Errorf("gravity = %v, want 3", cfg.Simulation.Gravity)
	}
	if cfg.Simulation.Stiffness != fluid.DefaultStiffness {
		t.Errorf("stiffness default lost: %v", cfg.Simulation.Stiffness)
	}
	if !strings.Contains(cfg.Scene, "NEW_P") {
		t.Errorf("scene = %q", cfg.Scene)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := writeFile(path, "simulation: [1, 2"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for bad yaml")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dambreak")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Simulation.SmoothingRadius != 16 {
		t.Errorf("expected h 16, got %f", cfg.Simulation.SmoothingRadius)
	}

	cfg.Scene = "changed"
	if Presets["dambreak"].Scene == "changed" {
		t.Error("GetPreset returned shared config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/spherebox/internal/sphere"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "euler" {
		t.Errorf("expected integrator euler, got %s", cfg.Integrator)
	}
	if cfg.Spheres.Count != 8 {
		t.Errorf("expected 8 spheres, got %d", cfg.Spheres.Count)
	}
	if cfg.Bounds() != sphere.Cube(5) {
		t.Errorf("unexpected bounds %v", cfg.Bounds())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no spheres", func(c *Config) { c.Spheres.Count = 0 }},
		{"zero radius", func(c *Config) { c.Spheres.Radius = 0 }},
		{"negative speed", func(c *Config) { c.Spheres.Speed = -1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"record every zero", func(c *Config) { c.RecordEvery = 0 }},
		{"flat box", func(c *Config) { c.Box.Max[1] = c.Box.Min[1] }},
		{"zero iter count", func(c *Config) { c.RK4.IterCount = 0 }},
		{"max below iter count", func(c *Config) { c.RK4.IterCount = 5; c.RK4.MaxIterCount = 4 }},
		{"adaptive without scale", func(c *Config) { c.RK4.Adaptive = true; c.RK4.AccelScale = 0 }},
		{"unknown integrator", func(c *Config) { c.Integrator = "rk45" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := GetPreset("gravity")
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.N != 10 || opts.Integrator != "rk4" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Field == nil {
		t.Error("expected a field")
	}
	if opts.IterThreshold == nil {
		t.Error("expected adaptive threshold")
	}

	cfg = DefaultConfig()
	opts, err = cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Field != nil {
		t.Errorf("none field should map to nil, got %T", opts.Field)
	}

	cfg.Field.Name = "magnet"
	if _, err := cfg.Options(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := GetPreset("spring")
	cfg.Seed = 99

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Seed != 99 || loaded.Integrator != "verlet" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Field.Params["stiffness"] != 1.5 {
		t.Errorf("params = %v", loaded.Field.Params)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dense")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Spheres.Count != 40 {
		t.Errorf("expected 40 spheres, got %d", cfg.Spheres.Count)
	}

	cfg.Field.Params = map[string]float64{"drag": 1}
	g := GetPreset("gravity")
	g.Field.Params["gravity"] = 0
	if Presets["gravity"].Field.Params["gravity"] != 9.81 {
		t.Error("GetPreset returned shared params")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("listed %d presets, have %d", len(names), len(Presets))
	}
	for _, name := range names {
		if _, err := GetPreset(name).Options(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0.01
	cfg.Duration = 1
	if cfg.Steps() != 100 {
		t.Errorf("steps = %d, want 100", cfg.Steps())
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	settings := map[string]float64{
		"dt":          0.02,
		"spheres":     12,
		"radius":      0.5,
		"iter_count":  3,
		"accel_scale": 2,
		"drag":        0.3,
	}
	for name, v := range settings {
		if err := cfg.Set(name, v); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	if cfg.Dt != 0.02 || cfg.Spheres.Count != 12 || cfg.Spheres.Radius != 0.5 {
		t.Errorf("run settings not applied: %+v", cfg)
	}
	if cfg.RK4.IterCount != 3 || cfg.RK4.AccelScale != 2 {
		t.Errorf("rk4 settings not applied: %+v", cfg.RK4)
	}
	if cfg.Field.Params["drag"] != 0.3 {
		t.Errorf("field params = %v", cfg.Field.Params)
	}
	if err := cfg.Set("", 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty name: err = %v", err)
	}
}

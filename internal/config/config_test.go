package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/kepler/internal/kepler"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != DefaultName {
		t.Errorf("expected name %s, got %s", DefaultName, cfg.Name)
	}
	if cfg.Binary.Semi <= 0 {
		t.Error("semimajor axis should be positive")
	}
	if cfg.Catalog.Filter != "*_settings.yaml" {
		t.Errorf("unexpected catalog filter %q", cfg.Catalog.Filter)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("stype")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Binary.Semi != 50.0 {
		t.Errorf("expected a 50, got %f", cfg.Binary.Semi)
	}
	if cfg.Binary.M2 != 0.33 {
		t.Errorf("expected m2 0.33, got %f", cfg.Binary.M2)
	}
	if cfg.OutDir != DefaultOutDir {
		t.Errorf("preset should inherit out dir, got %q", cfg.OutDir)
	}

	cfg.Binary.Semi = 3
	if Presets["stype"].Binary.Semi != 50.0 {
		t.Error("GetPreset must not alias the preset table")
	}

	if GetPreset("missing") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kepler.yaml")

	cfg := GetPreset("inclined")
	cfg.Catalog.ExactDirs = true
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Binary != cfg.Binary {
		t.Errorf("binary mismatch: %+v vs %+v", got.Binary, cfg.Binary)
	}
	if !got.Catalog.ExactDirs {
		t.Error("exact_dirs lost")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"unbound", func(c *Config) { c.Binary.Ecc = 1.2 }, kepler.ErrUnbound},
		{"zero semi", func(c *Config) { c.Binary.Semi = 0 }, kepler.ErrParameterBounds},
		{"massless", func(c *Config) { c.Binary.M2 = 0 }, kepler.ErrParameterBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.StarMode = "single"
	if cfg.Validate() == nil {
		t.Error("expected error for unknown star mode")
	}
}

func TestBinaryMeanAnomaly(t *testing.T) {
	b := BinaryConfig{Ecc: 0.3, Semi: 1, MeanAnom: 0, M1: 1, M2: 1}
	bin, err := b.Binary()
	if err != nil {
		t.Fatal(err)
	}
	if bin.Nu != 0 {
		t.Errorf("expected ν 0 at periapsis, got %f", bin.Nu)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene.Gravity != -9.8 {
		t.Errorf("expected gravity -9.8, got %f", cfg.Scene.Gravity)
	}
	if cfg.Run.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Run.Duration <= 0 {
		t.Error("duration should be positive")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("black_hole")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Scene.BlackHole {
		t.Error("expected black hole on")
	}
	if cfg.Scene.Gravity != 0 {
		t.Errorf("expected gravity 0, got %f", cfg.Scene.Gravity)
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	cfg := GetPreset("calm")
	require.NotNil(t, cfg)
	cfg.Scene.Gravity = 42

	assert.Equal(t, -3.0, GetPreset("calm").Scene.Gravity)
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	_, err := LoadPreset("nonexistent")
	assert.ErrorIs(t, err, dynamo.ErrUnknownPreset)
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Len(t, names, len(Presets))
	assert.IsIncreasing(t, names)
	for _, n := range []string{"default", "calm", "chaos", "black_hole", "magnetic", "zero_g"} {
		assert.Contains(t, names, n)
	}
}

func TestPresetsAreRunnable(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		sc := cfg.ToScene()
		if cfg.Run.Dt <= 0 || cfg.Run.Duration <= 0 {
			t.Errorf("preset %s has a non-positive dt or duration", name)
		}
		if *sc != cfg.Scene {
			t.Errorf("preset %s changes under Clamp", name)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("chaos")
	cfg.Run.Seed = 99

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "scene:\n  gravity: -1\n  restitution: 7\nrun:\n  duration: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, -1.0, cfg.Scene.Gravity)
	assert.Equal(t, 1.0, cfg.Scene.Restitution, "restitution is clamped")
	assert.Equal(t, 0.1, cfg.Scene.Friction)
	assert.Equal(t, 3.0, cfg.Run.Duration)
	assert.Equal(t, DefaultDt, cfg.Run.Dt)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: [1, 2"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.SampleEvery = 0
	cfg.Run.Seed = 5

	sc := cfg.SimConfig()
	assert.Equal(t, 1, sc.SampleEvery)
	assert.Equal(t, int64(5), sc.Seed)
	assert.True(t, sc.ValidateState)
}

func TestToSceneClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene.TimeScale = 100
	sc := cfg.ToScene()

	assert.Equal(t, physics.MaxTimeScale, sc.TimeScale)
	assert.Equal(t, 100.0, cfg.Scene.TimeScale)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, [3]float32{0, 5, 10}, cfg.Camera.Position)
	assert.Equal(t, float32(60), cfg.Light.RateDeg)
	assert.Equal(t, PolicyInPlace, cfg.Light.Policy)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level = "debug"

[window]
width = 800
height = 600

[scene]
model = "models/cube.obj"
layout = "single"

[light]
policy = "accumulator"
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "oxy-viewer", cfg.Window.Title)
	assert.Equal(t, "models/cube.obj", cfg.Scene.Model)
	assert.Equal(t, LayoutSingle, cfg.Scene.Layout)
	assert.Equal(t, PolicyAccumulator, cfg.Light.Policy)
	assert.Equal(t, float32(45), cfg.Camera.FovyDeg)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", "[window"},
		{"zero width", "[window]\nwidth = 0"},
		{"near beyond far", "[camera]\nznear = 10.0\nzfar = 1.0"},
		{"pitch limit", "[camera]\npitch_limit_deg = 90.0"},
		{"layout", "[scene]\nlayout = \"spiral\""},
		{"policy", "[light]\npolicy = \"wobble\""},
		{"present mode", "[renderer]\npresent_mode = \"mailbox\""},
		{"depth format", "[renderer]\ndepth_format = \"stencil8\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			require.Error(t, err)
			kind, ok := common.KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, common.KindFatalInit, kind)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("profiling = true\n"), 0o644))
	t.Setenv(EnvPath, path)

	cfg, used, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.True(t, cfg.Profiling)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kjkrol/learngl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"learngl"}, args...))
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := runApp(t, "list")
	require.NoError(t, err)
	for _, name := range []string{"window", "triangle", "rectangle", "pulse"} {
		assert.Contains(t, out, name)
	}
}

func TestConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learngl.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Window]\nWidth = 640\nHeight = 480\n"), 0o644))

	out, err := runApp(t, "--config", path, "--height", "360", "--scene", "rectangle", "config")
	require.NoError(t, err)

	cfg := config.Config{}
	require.NoError(t, config.Decode(bytes.NewBufferString(out), &cfg))
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 360, cfg.Window.Height)
	assert.Equal(t, "rectangle", cfg.Render.Scene)
	assert.Equal(t, config.Defaults.Render.ClearColor, cfg.Render.ClearColor)
}

func TestConfig_PositionalScene(t *testing.T) {
	out, err := runApp(t, "config", "pulse")
	require.NoError(t, err)
	assert.Contains(t, out, `Scene = "pulse"`)
}

func TestConfig_RejectsInvalid(t *testing.T) {
	_, err := runApp(t, "--scene", "cube", "config")
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = runApp(t, "--width", "-1", "config")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestConfig_CommandLevelFlags(t *testing.T) {
	out, err := runApp(t, "config", "--width", "640", "--scene", "pulse")
	require.NoError(t, err)

	cfg := config.Config{}
	require.NoError(t, config.Decode(bytes.NewBufferString(out), &cfg))
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, config.Defaults.Window.Height, cfg.Window.Height)
	assert.Equal(t, "pulse", cfg.Render.Scene)

	_, err = runApp(t, "config", "--scene", "cube")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

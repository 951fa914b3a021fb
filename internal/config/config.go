// Package config holds the learngl settings: window, GL context, clear
// colour, scene and log verbosity. Values come from built-in defaults, an
// optional TOML file and finally command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/internal/scene"
	"github.com/kjkrol/learngl/pkg/gfx"
)

var ErrInvalid = errors.New("invalid config")

type Window struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

type GL struct {
	Major       int
	Minor       int
	CoreProfile bool
}

type Render struct {
	Scene      string
	ClearColor [4]float32
}

type Log struct {
	// Verbosity 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace
	Verbosity int
}

type Config struct {
	Window Window
	GL     GL
	Render Render
	Log    Log
}

// Defaults match the LearnOpenGL sample window.
var Defaults = Config{
	Window: Window{
		Width:     800,
		Height:    600,
		Title:     "LearnOpenGL",
		Resizable: true,
		VSync:     true,
	},
	GL: GL{
		Major:       3,
		Minor:       3,
		CoreProfile: true,
	},
	Render: Render{
		Scene:      "triangle",
		ClearColor: [4]float32{0.2, 0.3, 0.3, 1.0},
	},
	Log: Log{
		Verbosity: 3,
	},
}

// Load reads a TOML file on top of the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Defaults
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r into cfg, rejecting unknown keys.
func Decode(r io.Reader, cfg *Config) error {
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown field %q", ErrInvalid, undecoded[0].String())
	}
	return nil
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.GL.Major < 3 || (c.GL.Major == 3 && c.GL.Minor < 3) {
		return fmt.Errorf("%w: OpenGL %d.%d, need at least 3.3", ErrInvalid, c.GL.Major, c.GL.Minor)
	}
	if _, ok := scene.Lookup(c.Render.Scene); !ok {
		return fmt.Errorf("%w: unknown scene %q", ErrInvalid, c.Render.Scene)
	}
	for i, v := range c.Render.ClearColor {
		if math.IsNaN(float64(v)) || v < 0 || v > 1 {
			return fmt.Errorf("%w: clear colour component %d = %v outside [0,1]", ErrInvalid, i, v)
		}
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return fmt.Errorf("%w: verbosity %d", ErrInvalid, c.Log.Verbosity)
	}
	return nil
}

func (c Config) WindowConfig() gfx.WindowConfig {
	swap := 0
	if c.Window.VSync {
		swap = 1
	}
	return gfx.WindowConfig{
		Width:        c.Window.Width,
		Height:       c.Window.Height,
		Title:        c.Window.Title,
		GLMajor:      c.GL.Major,
		GLMinor:      c.GL.Minor,
		CoreProfile:  c.GL.CoreProfile,
		Resizable:    c.Window.Resizable,
		SwapInterval: swap,
	}
}

func (c Config) ClearColor() mgl32.Vec4 {
	return mgl32.Vec4(c.Render.ClearColor)
}

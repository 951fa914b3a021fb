package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/internal/logging"
	"github.com/kjkrol/learngl/pkg/gfx"
	"github.com/kjkrol/learngl/pkg/gpu"
	"github.com/kjkrol/learngl/pkg/mesh"
	"github.com/kjkrol/learngl/pkg/shader"
)

// Renderer draws a single scene. It owns the program and mesh built for it.
type Renderer struct {
	scene      Scene
	driver     gpu.Driver
	clearColor mgl32.Vec4
	logger     *slog.Logger

	program *shader.Program
	mesh    *mesh.Mesh
}

var (
	_ gfx.Renderer = (*Renderer)(nil)
	_ gfx.Resizer  = (*Renderer)(nil)
)

// NewRenderer builds the scene's program and uploads its vertex data. A
// build failure is returned as is, so callers can stop before entering the
// frame loop.
func NewRenderer(s Scene, driver gpu.Driver, clearColor mgl32.Vec4, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		scene:      s,
		driver:     driver,
		clearColor: clearColor,
		logger:     logger.With("scene", s.Name),
	}
	if !s.Draws() {
		return r, nil
	}

	program, err := shader.NewBuilder(driver, shader.WithLogger(r.logger)).Build(s.Vertex, s.Fragment)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	m, err := mesh.New(driver, s.Vertices, s.Indices, s.Layout)
	if err != nil {
		program.Close()
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	r.program, r.mesh = program, m
	r.logger.Debug("scene ready", "program", program.Handle(), "indexed", m.Indexed())
	return r, nil
}

func (r *Renderer) Resize(width, height int) {
	r.driver.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) Render(f gfx.Frame) {
	r.logger.Log(context.Background(), logging.LevelTrace, "frame", "index", f.Index, "elapsed", f.Elapsed)
	r.driver.ClearColor(r.clearColor)
	r.driver.Clear()
	if r.program == nil {
		return
	}
	r.program.Use()
	if r.scene.Uniforms != nil {
		for name, v := range r.scene.Uniforms(f.Elapsed) {
			r.program.SetVec4(name, v)
		}
	}
	r.mesh.Draw(r.scene.Primitive)
}

func (r *Renderer) Close() {
	r.mesh.Close()
	r.program.Close()
	r.mesh, r.program = nil, nil
}

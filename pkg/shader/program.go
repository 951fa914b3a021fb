package shader

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/pkg/gpu"
)

// Program is a linked program owned by the caller. Uniform and attribute
// locations are resolved by name on first use and cached for the lifetime
// of the program.
type Program struct {
	driver   gpu.ShaderDriver
	handle   uint32
	logger   *slog.Logger
	uniforms map[string]int32
	attribs  map[string]int32
}

func newProgram(driver gpu.ShaderDriver, handle uint32, logger *slog.Logger) *Program {
	return &Program{
		driver:   driver,
		handle:   handle,
		logger:   logger,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}
}

// Handle returns the driver handle, or 0 once the program is closed.
func (p *Program) Handle() uint32 {
	if p == nil {
		return 0
	}
	return p.handle
}

func (p *Program) Use() {
	if p == nil || p.handle == 0 {
		return
	}
	p.driver.UseProgram(p.handle)
}

// Uniform returns the location of the named uniform, -1 if the program has
// no active uniform of that name.
func (p *Program) Uniform(name string) int32 {
	if p == nil {
		return -1
	}
	return p.resolve(p.uniforms, name, "uniform", p.driver.UniformLocation)
}

// Attrib returns the location of the named vertex attribute, -1 if unknown.
func (p *Program) Attrib(name string) int32 {
	if p == nil {
		return -1
	}
	return p.resolve(p.attribs, name, "attribute", p.driver.AttribLocation)
}

func (p *Program) resolve(cache map[string]int32, name, kind string, lookup func(uint32, string) int32) int32 {
	if p.handle == 0 {
		return -1
	}
	if loc, ok := cache[name]; ok {
		return loc
	}
	loc := lookup(p.handle, name)
	if loc < 0 {
		p.logger.Debug("inactive shader variable", "program", p.handle, "kind", kind, "name", name)
	}
	cache[name] = loc
	return loc
}

// The setters below expect the program to be in use.

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.Uniform(name); loc >= 0 {
		p.driver.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.Uniform(name); loc >= 0 {
		p.driver.Uniform4f(loc, v)
	}
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.Uniform(name); loc >= 0 {
		p.driver.UniformMatrix4f(loc, m)
	}
}

// Close deletes the program. It is safe to call more than once.
func (p *Program) Close() {
	if p == nil || p.handle == 0 {
		return
	}
	p.driver.DeleteProgram(p.handle)
	p.handle = 0
	p.uniforms = nil
	p.attribs = nil
}

// Package gldriver implements gpu.Driver on top of the OpenGL 3.3 core
// profile. A context must be current on the calling thread.
package gldriver

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/pkg/gpu"
)

type Driver struct{}

var _ gpu.Driver = (*Driver)(nil)

// Init loads the GL entry points for the current context and returns a
// driver along with the GL version string.
func Init() (*Driver, string, error) {
	if err := gl.Init(); err != nil {
		return nil, "", fmt.Errorf("gl init: %w", err)
	}
	return &Driver{}, gl.GoStr(gl.GetString(gl.VERSION)), nil
}

var shaderTypes = map[gpu.Stage]uint32{
	gpu.Vertex:   gl.VERTEX_SHADER,
	gpu.Fragment: gl.FRAGMENT_SHADER,
}

var primitives = map[gpu.Primitive]uint32{
	gpu.Triangles:     gl.TRIANGLES,
	gpu.TriangleStrip: gl.TRIANGLE_STRIP,
	gpu.Lines:         gl.LINES,
}

var targets = map[gpu.BufferTarget]uint32{
	gpu.ArrayBuffer:   gl.ARRAY_BUFFER,
	gpu.ElementBuffer: gl.ELEMENT_ARRAY_BUFFER,
}

func (d *Driver) CreateShader(stage gpu.Stage) uint32 {
	return gl.CreateShader(shaderTypes[stage])
}

func (d *Driver) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (d *Driver) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (d *Driver) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (d *Driver) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Driver) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *Driver) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *Driver) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (d *Driver) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (d *Driver) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (d *Driver) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (d *Driver) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Driver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Driver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Driver) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *Driver) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Driver) Uniform4f(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (d *Driver) UniformMatrix4f(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Driver) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *Driver) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *Driver) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Driver) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (d *Driver) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	gl.BindBuffer(targets[target], buffer)
}

func (d *Driver) BufferFloat32(target gpu.BufferTarget, data []float32) {
	if len(data) == 0 {
		gl.BufferData(targets[target], 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(targets[target], len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Driver) BufferUint32(target gpu.BufferTarget, data []uint32) {
	if len(data) == 0 {
		gl.BufferData(targets[target], 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(targets[target], len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Driver) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (d *Driver) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (d *Driver) DrawArrays(mode gpu.Primitive, first, count int32) {
	gl.DrawArrays(primitives[mode], first, count)
}

func (d *Driver) DrawElements(mode gpu.Primitive, count int32) {
	gl.DrawElements(primitives[mode], count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (d *Driver) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Driver) ClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (d *Driver) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

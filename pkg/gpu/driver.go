package gpu

import "github.com/go-gl/mathgl/mgl32"

type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

type Primitive uint8

const (
	Triangles Primitive = iota
	TriangleStrip
	Lines
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case Lines:
		return "lines"
	default:
		return "unknown"
	}
}

type BufferTarget uint8

const (
	ArrayBuffer BufferTarget = iota
	ElementBuffer
)

// ShaderDriver compiles, links and feeds shader programs.
// Handles are driver-owned; 0 is never a valid handle.
type ShaderDriver interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32
	Uniform1f(location int32, v float32)
	Uniform4f(location int32, v mgl32.Vec4)
	UniformMatrix4f(location int32, m mgl32.Mat4)
}

// BufferDriver uploads vertex data and issues draw calls.
type BufferDriver interface {
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	BufferFloat32(target BufferTarget, data []float32)
	BufferUint32(target BufferTarget, data []uint32)
	DeleteBuffer(buffer uint32)

	VertexAttribPointer(index uint32, size int32, stride int32, offset int)
	EnableVertexAttribArray(index uint32)

	DrawArrays(mode Primitive, first, count int32)
	DrawElements(mode Primitive, count int32)
}

type FrameDriver interface {
	Viewport(x, y, width, height int32)
	ClearColor(c mgl32.Vec4)
	Clear()
}

type Driver interface {
	ShaderDriver
	BufferDriver
	FrameDriver
}

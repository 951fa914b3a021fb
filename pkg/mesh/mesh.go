package mesh

import (
	"errors"
	"fmt"

	"github.com/kjkrol/learngl/pkg/gpu"
)

const floatSize = 4

var (
	ErrNoVertices = errors.New("mesh has no vertex data")
	ErrBadLayout  = errors.New("vertex data does not match layout")
)

// Attribute describes one float vector attribute of an interleaved vertex.
type Attribute struct {
	Location uint32
	Size     int32
}

// Layout lists the interleaved attributes of a vertex in buffer order.
type Layout []Attribute

// Floats returns the number of floats per vertex.
func (l Layout) Floats() int {
	n := 0
	for _, a := range l {
		n += int(a.Size)
	}
	return n
}

func (l Layout) Stride() int32 {
	return int32(l.Floats() * floatSize)
}

// Offset returns the byte offset of the i-th attribute.
func (l Layout) Offset(i int) int {
	off := 0
	for _, a := range l[:i] {
		off += int(a.Size) * floatSize
	}
	return off
}

// Mesh owns a vertex array with its vertex buffer and optional element buffer.
type Mesh struct {
	driver   gpu.BufferDriver
	vao      uint32
	vbo      uint32
	ebo      uint32
	vertices int32
	indices  int32
}

// New uploads vertices (and indices, when present) once and records the
// attribute layout in a fresh vertex array.
func New(driver gpu.BufferDriver, vertices []float32, indices []uint32, layout Layout) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	per := layout.Floats()
	if per == 0 || len(vertices)%per != 0 {
		return nil, fmt.Errorf("%w: %d floats with %d per vertex", ErrBadLayout, len(vertices), per)
	}
	count := uint32(len(vertices) / per)
	for _, idx := range indices {
		if idx >= count {
			return nil, fmt.Errorf("%w: index %d out of range for %d vertices", ErrBadLayout, idx, count)
		}
	}

	m := &Mesh{
		driver:   driver,
		vertices: int32(count),
		indices:  int32(len(indices)),
	}
	m.vao = driver.GenVertexArray()
	driver.BindVertexArray(m.vao)

	m.vbo = driver.GenBuffer()
	driver.BindBuffer(gpu.ArrayBuffer, m.vbo)
	driver.BufferFloat32(gpu.ArrayBuffer, vertices)

	if len(indices) > 0 {
		m.ebo = driver.GenBuffer()
		driver.BindBuffer(gpu.ElementBuffer, m.ebo)
		driver.BufferUint32(gpu.ElementBuffer, indices)
	}

	stride := layout.Stride()
	for i, a := range layout {
		driver.VertexAttribPointer(a.Location, a.Size, stride, layout.Offset(i))
		driver.EnableVertexAttribArray(a.Location)
	}

	driver.BindBuffer(gpu.ArrayBuffer, 0)
	driver.BindVertexArray(0)
	return m, nil
}

func (m *Mesh) Indexed() bool {
	return m.ebo != 0
}

func (m *Mesh) Draw(mode gpu.Primitive) {
	if m == nil || m.vao == 0 {
		return
	}
	m.driver.BindVertexArray(m.vao)
	if m.Indexed() {
		m.driver.DrawElements(mode, m.indices)
		return
	}
	m.driver.DrawArrays(mode, 0, m.vertices)
}

// Close releases the vertex array and its buffers. It is safe to call more
// than once.
func (m *Mesh) Close() {
	if m == nil || m.vao == 0 {
		return
	}
	m.driver.DeleteVertexArray(m.vao)
	m.driver.DeleteBuffer(m.vbo)
	if m.ebo != 0 {
		m.driver.DeleteBuffer(m.ebo)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

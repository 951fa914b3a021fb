// Package gputest provides an in-memory gpu.Driver for tests that must run
// without a display or GL context.
//
// Shaders are checked with a small GLSL front end (version directive,
// bracket balance, statement terminators) and programs are linked by
// matching fragment inputs against vertex outputs. Every object is tracked
// so tests can assert that nothing is left alive.
package gputest

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/pkg/gpu"
)

type shaderObject struct {
	stage    gpu.Stage
	source   string
	compiled bool
	log      string
	unit     unit
}

type programObject struct {
	attached []uint32
	linked   bool
	log      string
	uniforms map[string]int32
	attribs  map[string]int32
}

type vertexArray struct {
	attribs  map[uint32]AttribPointer
	enabled  map[uint32]bool
	elements uint32
}

type AttribPointer struct {
	Buffer uint32
	Size   int32
	Stride int32
	Offset int
}

type DrawCall struct {
	Program     uint32
	VertexArray uint32
	Mode        gpu.Primitive
	First       int32
	Count       int32
	Indexed     bool
}

type UniformCall struct {
	Program  uint32
	Location int32
	Value    any
}

// Driver is a deterministic fake implementation of gpu.Driver.
// It is not safe for concurrent use.
type Driver struct {
	next uint32

	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject
	buffers  map[uint32][]any
	arrays   map[uint32]*vertexArray

	current      uint32
	boundArray   uint32
	boundBuffers map[gpu.BufferTarget]uint32

	Draws      []DrawCall
	UniformSet []UniformCall
	Viewports  [][4]int32
	Clears     int
	ClearValue mgl32.Vec4
}

var _ gpu.Driver = (*Driver)(nil)

func New() *Driver {
	return &Driver{
		shaders:      make(map[uint32]*shaderObject),
		programs:     make(map[uint32]*programObject),
		buffers:      make(map[uint32][]any),
		arrays:       make(map[uint32]*vertexArray),
		boundBuffers: make(map[gpu.BufferTarget]uint32),
	}
}

func (d *Driver) handle() uint32 {
	d.next++
	return d.next
}

func (d *Driver) CreateShader(stage gpu.Stage) uint32 {
	id := d.handle()
	d.shaders[id] = &shaderObject{stage: stage}
	return id
}

func (d *Driver) ShaderSource(shader uint32, source string) {
	if sh := d.shaders[shader]; sh != nil {
		sh.source = source
	}
}

func (d *Driver) CompileShader(shader uint32) {
	sh := d.shaders[shader]
	if sh == nil {
		return
	}
	sh.unit, sh.log = checkSource(sh.source)
	sh.compiled = sh.log == ""
}

func (d *Driver) ShaderCompiled(shader uint32) bool {
	sh := d.shaders[shader]
	return sh != nil && sh.compiled
}

func (d *Driver) ShaderInfoLog(shader uint32) string {
	if sh := d.shaders[shader]; sh != nil {
		return sh.log
	}
	return ""
}

func (d *Driver) DeleteShader(shader uint32) {
	delete(d.shaders, shader)
}

func (d *Driver) CreateProgram() uint32 {
	id := d.handle()
	d.programs[id] = &programObject{}
	return id
}

func (d *Driver) AttachShader(program, shader uint32) {
	if pr := d.programs[program]; pr != nil {
		pr.attached = append(pr.attached, shader)
	}
}

func (d *Driver) DetachShader(program, shader uint32) {
	pr := d.programs[program]
	if pr == nil {
		return
	}
	for i, id := range pr.attached {
		if id == shader {
			pr.attached = append(pr.attached[:i], pr.attached[i+1:]...)
			return
		}
	}
}

func (d *Driver) LinkProgram(program uint32) {
	pr := d.programs[program]
	if pr == nil {
		return
	}
	var vs, fs *unit
	for _, id := range pr.attached {
		sh := d.shaders[id]
		if sh == nil || !sh.compiled {
			pr.linked = false
			pr.log = "error: linking with uncompiled/unspecialized shader\n"
			return
		}
		u := sh.unit
		switch sh.stage {
		case gpu.Vertex:
			vs = &u
		case gpu.Fragment:
			fs = &u
		}
	}
	pr.log = linkUnits(vs, fs)
	pr.linked = pr.log == ""
	if !pr.linked {
		return
	}
	pr.uniforms = assignLocations(append(append([]variable{}, vs.uniforms...), fs.uniforms...))
	pr.attribs = assignLocations(vs.ins)
}

// assignLocations honours explicit layout locations and numbers the rest
// in name order after them.
func assignLocations(vars []variable) map[string]int32 {
	out := make(map[string]int32, len(vars))
	used := make(map[int]bool)
	var implicit []string
	for _, v := range vars {
		if _, ok := out[v.name]; ok {
			continue
		}
		if v.location >= 0 {
			out[v.name] = int32(v.location)
			used[v.location] = true
			continue
		}
		out[v.name] = -1
		implicit = append(implicit, v.name)
	}
	sort.Strings(implicit)
	next := 0
	for _, name := range implicit {
		for used[next] {
			next++
		}
		out[name] = int32(next)
		used[next] = true
	}
	return out
}

func (d *Driver) ProgramLinked(program uint32) bool {
	pr := d.programs[program]
	return pr != nil && pr.linked
}

func (d *Driver) ProgramInfoLog(program uint32) string {
	if pr := d.programs[program]; pr != nil {
		return pr.log
	}
	return ""
}

func (d *Driver) UseProgram(program uint32) {
	d.current = program
}

func (d *Driver) DeleteProgram(program uint32) {
	delete(d.programs, program)
	if d.current == program {
		d.current = 0
	}
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	return lookup(d.programs[program], name, func(p *programObject) map[string]int32 { return p.uniforms })
}

func (d *Driver) AttribLocation(program uint32, name string) int32 {
	return lookup(d.programs[program], name, func(p *programObject) map[string]int32 { return p.attribs })
}

func lookup(pr *programObject, name string, table func(*programObject) map[string]int32) int32 {
	if pr == nil || !pr.linked {
		return -1
	}
	if loc, ok := table(pr)[name]; ok {
		return loc
	}
	return -1
}

func (d *Driver) Uniform1f(location int32, v float32) {
	d.recordUniform(location, v)
}

func (d *Driver) Uniform4f(location int32, v mgl32.Vec4) {
	d.recordUniform(location, v)
}

func (d *Driver) UniformMatrix4f(location int32, m mgl32.Mat4) {
	d.recordUniform(location, m)
}

func (d *Driver) recordUniform(location int32, v any) {
	if location < 0 {
		return
	}
	d.UniformSet = append(d.UniformSet, UniformCall{Program: d.current, Location: location, Value: v})
}

func (d *Driver) GenVertexArray() uint32 {
	id := d.handle()
	d.arrays[id] = &vertexArray{
		attribs: make(map[uint32]AttribPointer),
		enabled: make(map[uint32]bool),
	}
	return id
}

func (d *Driver) BindVertexArray(vao uint32) {
	d.boundArray = vao
	if va := d.arrays[vao]; va != nil {
		d.boundBuffers[gpu.ElementBuffer] = va.elements
	}
}

func (d *Driver) DeleteVertexArray(vao uint32) {
	delete(d.arrays, vao)
	if d.boundArray == vao {
		d.boundArray = 0
	}
}

func (d *Driver) GenBuffer() uint32 {
	id := d.handle()
	d.buffers[id] = nil
	return id
}

func (d *Driver) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	d.boundBuffers[target] = buffer
	if target == gpu.ElementBuffer {
		if va := d.arrays[d.boundArray]; va != nil {
			va.elements = buffer
		}
	}
}

func (d *Driver) BufferFloat32(target gpu.BufferTarget, data []float32) {
	d.upload(target, data)
}

func (d *Driver) BufferUint32(target gpu.BufferTarget, data []uint32) {
	d.upload(target, data)
}

func (d *Driver) upload(target gpu.BufferTarget, data any) {
	id := d.boundBuffers[target]
	if _, ok := d.buffers[id]; !ok || id == 0 {
		return
	}
	d.buffers[id] = append(d.buffers[id], data)
}

func (d *Driver) DeleteBuffer(buffer uint32) {
	delete(d.buffers, buffer)
	for target, id := range d.boundBuffers {
		if id == buffer {
			d.boundBuffers[target] = 0
		}
	}
}

func (d *Driver) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	va := d.arrays[d.boundArray]
	if va == nil {
		return
	}
	va.attribs[index] = AttribPointer{
		Buffer: d.boundBuffers[gpu.ArrayBuffer],
		Size:   size,
		Stride: stride,
		Offset: offset,
	}
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	if va := d.arrays[d.boundArray]; va != nil {
		va.enabled[index] = true
	}
}

func (d *Driver) DrawArrays(mode gpu.Primitive, first, count int32) {
	d.Draws = append(d.Draws, DrawCall{Program: d.current, VertexArray: d.boundArray, Mode: mode, First: first, Count: count})
}

func (d *Driver) DrawElements(mode gpu.Primitive, count int32) {
	d.Draws = append(d.Draws, DrawCall{Program: d.current, VertexArray: d.boundArray, Mode: mode, Count: count, Indexed: true})
}

func (d *Driver) Viewport(x, y, width, height int32) {
	d.Viewports = append(d.Viewports, [4]int32{x, y, width, height})
}

func (d *Driver) ClearColor(c mgl32.Vec4) {
	d.ClearValue = c
}

func (d *Driver) Clear() {
	d.Clears++
}

// Live reports the number of objects that were created and not yet deleted.
func (d *Driver) Live() (shaders, programs, buffers, arrays int) {
	return len(d.shaders), len(d.programs), len(d.buffers), len(d.arrays)
}

// LiveObjects is the sum of all values reported by Live.
func (d *Driver) LiveObjects() int {
	s, p, b, a := d.Live()
	return s + p + b + a
}

// Uploads returns every payload uploaded to buffer, in upload order.
func (d *Driver) Uploads(buffer uint32) []any {
	return d.buffers[buffer]
}

// Attrib returns the attribute pointer recorded for index on vao.
func (d *Driver) Attrib(vao, index uint32) (AttribPointer, bool) {
	va := d.arrays[vao]
	if va == nil || !va.enabled[index] {
		return AttribPointer{}, false
	}
	p, ok := va.attribs[index]
	return p, ok
}

// ElementBuffer returns the element buffer captured by vao.
func (d *Driver) ElementBuffer(vao uint32) uint32 {
	if va := d.arrays[vao]; va != nil {
		return va.elements
	}
	return 0
}

// Current returns the program most recently passed to UseProgram.
func (d *Driver) Current() uint32 {
	return d.current
}

package shader_test

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/pkg/gpu"
	"github.com/kjkrol/learngl/pkg/gpu/gputest"
	"github.com/kjkrol/learngl/pkg/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSource = `#version 330 core
layout (location = 0) in vec3 aPos;
out vec3 vColor;
void main()
{
	vColor = aPos;
	gl_Position = vec4(aPos, 1.0);
}
`

const fragmentSource = `#version 330 core
in vec3 vColor;
uniform vec4 uTint;
uniform float uFade;
uniform mat4 uColorMatrix;
out vec4 FragColor;
void main()
{
	FragColor = uColorMatrix * vec4(vColor, 1.0) * uTint * uFade;
}
`

// missing ';' after the gl_Position assignment
const brokenVertexSource = `#version 330 core
layout (location = 0) in vec3 aPos;
out vec3 vColor;
void main()
{
	vColor = aPos;
	gl_Position = vec4(aPos, 1.0)
}
`

const brokenFragmentSource = `#version 330 core
in vec3 vColor;
out vec4 FragColor;
void main()
{
	FragColor = vec4(vColor, 1.0;
}
`

// consumes a varying the vertex stage never writes
const mismatchedFragmentSource = `#version 330 core
in vec3 vNormal;
out vec4 FragColor;
void main()
{
	FragColor = vec4(vNormal, 1.0);
}
`

func newBuilder(d gpu.ShaderDriver, opts ...shader.Option) *shader.Builder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return shader.NewBuilder(d, append([]shader.Option{shader.WithLogger(logger)}, opts...)...)
}

func TestBuild_ValidSources(t *testing.T) {
	d := gputest.New()
	program, err := newBuilder(d).Build(vertexSource, fragmentSource)
	require.NoError(t, err)
	require.NotNil(t, program)
	assert.NotZero(t, program.Handle())

	shaders, programs, _, _ := d.Live()
	assert.Zero(t, shaders, "stages are released after linking")
	assert.Equal(t, 1, programs)
}

func TestBuild_VertexCompileError(t *testing.T) {
	d := gputest.New()
	program, err := newBuilder(d).Build(brokenVertexSource, fragmentSource)
	require.Error(t, err)
	assert.Nil(t, program)

	var compileErr *shader.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, gpu.Vertex, compileErr.Stage)
	assert.NotEmpty(t, compileErr.Log)
	assert.Contains(t, compileErr.Log, "0:8(1)")
	assert.Zero(t, d.LiveObjects())
}

func TestBuild_FragmentCompileError(t *testing.T) {
	d := gputest.New()
	_, err := newBuilder(d).Build(vertexSource, brokenFragmentSource)

	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, gpu.Fragment, compileErr.Stage)
	assert.NotEmpty(t, compileErr.Log)
	assert.Zero(t, d.LiveObjects(), "the compiled vertex stage must be released")
}

func TestBuild_LinkErrorOnVaryingMismatch(t *testing.T) {
	d := gputest.New()
	_, err := newBuilder(d).Build(vertexSource, mismatchedFragmentSource)

	var linkErr *shader.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.NotEmpty(t, linkErr.Log)
	assert.Contains(t, linkErr.Log, "vNormal")
	assert.Zero(t, d.LiveObjects())
}

func TestBuild_EmptySource(t *testing.T) {
	d := gputest.New()
	_, err := newBuilder(d).Build("  \n", fragmentSource)
	require.ErrorIs(t, err, shader.ErrEmptySource)

	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, gpu.Vertex, compileErr.Stage)
}

func TestBuild_RepeatedBuildsAllocateFreshHandles(t *testing.T) {
	d := gputest.New()
	b := newBuilder(d)
	seen := make(map[uint32]bool)
	for i := 0; i < 5; i++ {
		program, err := b.Build(vertexSource, fragmentSource)
		require.NoError(t, err)
		require.False(t, seen[program.Handle()], "handle %d reused", program.Handle())
		seen[program.Handle()] = true
	}
	_, programs, _, _ := d.Live()
	assert.Equal(t, 5, programs)
}

func TestBuild_InfoLogIsTruncated(t *testing.T) {
	d := gputest.New()
	_, err := newBuilder(d, shader.WithInfoLogLimit(10)).Build(brokenVertexSource, fragmentSource)

	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Len(t, compileErr.Log, 10)
}

// quietDriver reports failures with driver-supplied logs in place of the
// fake's own diagnostics.
type quietDriver struct {
	*gputest.Driver
	shaderLog, programLog string
}

func (d quietDriver) ShaderInfoLog(uint32) string  { return d.shaderLog }
func (d quietDriver) ProgramInfoLog(uint32) string { return d.programLog }

func TestBuild_TruncationKeepsUTF8Intact(t *testing.T) {
	d := quietDriver{Driver: gputest.New(), shaderLog: "0:1(1): error: ünexpected é"}
	_, err := newBuilder(d, shader.WithInfoLogLimit(16)).Build(brokenVertexSource, fragmentSource)

	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.True(t, utf8.ValidString(compileErr.Log))
	assert.Equal(t, "0:1(1): error: ", compileErr.Log)
}

func TestBuild_EmptyDriverLogStillDiagnoses(t *testing.T) {
	d := quietDriver{Driver: gputest.New()}

	_, err := newBuilder(d).Build(brokenVertexSource, fragmentSource)
	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.NotEmpty(t, compileErr.Log)

	_, err = newBuilder(d).Build(vertexSource, mismatchedFragmentSource)
	var linkErr *shader.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.NotEmpty(t, linkErr.Log)
	assert.Zero(t, d.LiveObjects())
}

func TestBuild_DefaultInfoLogLimit(t *testing.T) {
	d := gputest.New()
	var sb strings.Builder
	sb.WriteString("#version 330 core\nin vec3 vColor;\n")
	for i := 0; i < 40; i++ {
		sb.WriteString("in vec4 vMissingVaryingWithALongName")
		sb.WriteByte(byte('a' + i%26))
		sb.WriteString(strings.Repeat("x", i))
		sb.WriteString(";\n")
	}
	sb.WriteString("out vec4 FragColor;\nvoid main()\n{\n\tFragColor = vec4(vColor, 1.0);\n}\n")

	_, err := newBuilder(d).Build(vertexSource, sb.String())
	var linkErr *shader.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Len(t, linkErr.Log, shader.DefaultInfoLogLimit)
}

func TestBuild_VersionHeader(t *testing.T) {
	d := gputest.New()
	vs := strings.TrimPrefix(vertexSource, "#version 330 core\n")
	fs := strings.TrimPrefix(fragmentSource, "#version 330 core\n")

	_, err := newBuilder(d).Build(vs, fs)
	require.Error(t, err, "sources without #version are rejected by a core profile")

	program, err := newBuilder(d, shader.WithVersionHeader("330 core")).BuildPair(shader.Pair{Vertex: vs, Fragment: fs})
	require.NoError(t, err)
	assert.NotZero(t, program.Handle())
}

func TestProgram_UniformsAndClose(t *testing.T) {
	d := gputest.New()
	program, err := newBuilder(d).Build(vertexSource, fragmentSource)
	require.NoError(t, err)

	program.Use()
	assert.Equal(t, program.Handle(), d.Current())
	assert.GreaterOrEqual(t, program.Uniform("uTint"), int32(0))
	assert.Equal(t, int32(-1), program.Uniform("uMissing"))
	assert.Equal(t, int32(0), program.Attrib("aPos"))

	tint := mgl32.Vec4{1, 0.5, 0.2, 1}
	program.SetVec4("uTint", tint)
	program.SetVec4("uMissing", tint)
	require.Len(t, d.UniformSet, 1)
	assert.Equal(t, tint, d.UniformSet[0].Value)

	program.SetFloat("uFade", 0.25)
	program.SetMat4("uColorMatrix", mgl32.Ident4())
	program.SetFloat("uMissing", 1)
	require.Len(t, d.UniformSet, 3)
	assert.Equal(t, float32(0.25), d.UniformSet[1].Value)
	assert.Equal(t, program.Uniform("uFade"), d.UniformSet[1].Location)
	assert.Equal(t, mgl32.Ident4(), d.UniformSet[2].Value)
	assert.Equal(t, program.Uniform("uColorMatrix"), d.UniformSet[2].Location)
	assert.Equal(t, program.Handle(), d.UniformSet[2].Program)

	program.Close()
	program.Close()
	assert.Zero(t, program.Handle())
	assert.Zero(t, d.LiveObjects())
	assert.Equal(t, int32(-1), program.Uniform("uTint"))
}

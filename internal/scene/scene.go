package scene

import (
	"math"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/pkg/gpu"
	"github.com/kjkrol/learngl/pkg/mesh"
)

// Scene is one of the small demo programs: a shader pair, hard-coded vertex
// data and an optional per-frame uniform animation. A scene without shader
// sources only clears the window.
type Scene struct {
	Name        string
	Description string
	Vertex      string
	Fragment    string
	Vertices    []float32
	Indices     []uint32
	Layout      mesh.Layout
	Primitive   gpu.Primitive
	// Uniforms returns the vec4 uniform values for the frame at elapsed time t.
	Uniforms func(t time.Duration) map[string]mgl32.Vec4
}

func (s Scene) Draws() bool {
	return s.Vertex != "" && s.Fragment != "" && len(s.Vertices) > 0
}

var registry = map[string]Scene{}

func register(s Scene) {
	registry[s.Name] = s
}

func Lookup(name string) (Scene, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns the registered scene names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func All() []Scene {
	names := Names()
	out := make([]Scene, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}

const positionVertex = `#version 330 core
layout (location = 0) in vec3 aPos;
void main()
{
	gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
`

const orangeFragment = `#version 330 core
out vec4 FragColor;
void main()
{
	FragColor = vec4(1.0, 0.5, 0.2, 1.0);
}
`

const uniformFragment = `#version 330 core
uniform vec4 uColor;
out vec4 FragColor;
void main()
{
	FragColor = uColor;
}
`

var triangleVertices = []float32{
	-0.5, -0.5, 0.0,
	0.5, -0.5, 0.0,
	0.0, 0.5, 0.0,
}

var positionLayout = mesh.Layout{{Location: 0, Size: 3}}

func init() {
	register(Scene{
		Name:        "window",
		Description: "empty window cleared every frame",
	})
	register(Scene{
		Name:        "triangle",
		Description: "static orange triangle drawn from a vertex buffer",
		Vertex:      positionVertex,
		Fragment:    orangeFragment,
		Vertices:    triangleVertices,
		Layout:      positionLayout,
		Primitive:   gpu.Triangles,
	})
	register(Scene{
		Name:        "rectangle",
		Description: "rectangle drawn as two indexed triangles",
		Vertex:      positionVertex,
		Fragment:    orangeFragment,
		Vertices: []float32{
			0.5, 0.5, 0.0,
			0.5, -0.5, 0.0,
			-0.5, -0.5, 0.0,
			-0.5, 0.5, 0.0,
		},
		Indices:   []uint32{0, 1, 3, 1, 2, 3},
		Layout:    positionLayout,
		Primitive: gpu.Triangles,
	})
	register(Scene{
		Name:        "pulse",
		Description: "triangle whose colour uniform pulses over time",
		Vertex:      positionVertex,
		Fragment:    uniformFragment,
		Vertices:    triangleVertices,
		Layout:      positionLayout,
		Primitive:   gpu.Triangles,
		Uniforms: func(t time.Duration) map[string]mgl32.Vec4 {
			return map[string]mgl32.Vec4{"uColor": {0, pulse(t), 0, 1}}
		},
	})
}

// pulse oscillates in [0, 1] with a period of 2π seconds.
func pulse(t time.Duration) float32 {
	return float32(math.Sin(t.Seconds())/2 + 0.5)
}

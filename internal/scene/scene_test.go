package scene

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/learngl/internal/logging"
	"github.com/kjkrol/learngl/pkg/gfx"
	"github.com/kjkrol/learngl/pkg/gpu/gputest"
	"github.com/kjkrol/learngl/pkg/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	clearColor = mgl32.Vec4{0.2, 0.3, 0.3, 1}
	silent     = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"pulse", "rectangle", "triangle", "window"}, Names())
	assert.Len(t, All(), 4)

	s, ok := Lookup("triangle")
	require.True(t, ok)
	assert.True(t, s.Draws())

	w, ok := Lookup("window")
	require.True(t, ok)
	assert.False(t, w.Draws())

	_, ok = Lookup("cube")
	assert.False(t, ok)
}

func TestEveryScene_BuildsRendersAndReleases(t *testing.T) {
	for _, s := range All() {
		t.Run(s.Name, func(t *testing.T) {
			d := gputest.New()
			r, err := NewRenderer(s, d, clearColor, silent)
			require.NoError(t, err)

			r.Resize(800, 600)
			r.Render(gfx.Frame{Index: 0, Width: 800, Height: 600})
			assert.Equal(t, [][4]int32{{0, 0, 800, 600}}, d.Viewports)
			assert.Equal(t, 1, d.Clears)
			assert.Equal(t, clearColor, d.ClearValue)

			if s.Draws() {
				require.Len(t, d.Draws, 1)
				draw := d.Draws[0]
				assert.NotZero(t, draw.Program)
				assert.Equal(t, len(s.Indices) > 0, draw.Indexed)
			} else {
				assert.Empty(t, d.Draws)
			}

			r.Close()
			r.Close()
			assert.Zero(t, d.LiveObjects())
		})
	}
}

func TestRectangle_DrawsSixIndices(t *testing.T) {
	s, _ := Lookup("rectangle")
	d := gputest.New()
	r, err := NewRenderer(s, d, clearColor, silent)
	require.NoError(t, err)
	defer r.Close()

	r.Render(gfx.Frame{})
	require.Len(t, d.Draws, 1)
	assert.True(t, d.Draws[0].Indexed)
	assert.Equal(t, int32(6), d.Draws[0].Count)
}

func TestPulse_AnimatesColourUniform(t *testing.T) {
	s, _ := Lookup("pulse")
	d := gputest.New()
	r, err := NewRenderer(s, d, clearColor, silent)
	require.NoError(t, err)
	defer r.Close()

	quarter := math.Pi / 2
	r.Render(gfx.Frame{Elapsed: 0})
	r.Render(gfx.Frame{Elapsed: time.Duration(quarter * float64(time.Second))})
	require.Len(t, d.UniformSet, 2)

	first := d.UniformSet[0].Value.(mgl32.Vec4)
	second := d.UniformSet[1].Value.(mgl32.Vec4)
	assert.InDelta(t, 0.5, first[1], 1e-6)
	assert.InDelta(t, 1.0, second[1], 1e-6)
	assert.Equal(t, d.UniformSet[0].Program, d.Draws[0].Program)
}

func TestNewRenderer_PropagatesBuildErrors(t *testing.T) {
	broken := Scene{
		Name:     "broken",
		Vertex:   positionVertex,
		Fragment: "#version 330 core\nin vec3 vColor;\nout vec4 FragColor;\nvoid main()\n{\n\tFragColor = vec4(vColor, 1.0);\n}\n",
		Vertices: triangleVertices,
		Layout:   positionLayout,
	}
	d := gputest.New()
	r, err := NewRenderer(broken, d, clearColor, silent)
	assert.Nil(t, r)

	var linkErr *shader.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Contains(t, err.Error(), "scene broken")
	assert.Zero(t, d.LiveObjects())
}

func TestNewRenderer_ReleasesProgramOnBadMesh(t *testing.T) {
	s, _ := Lookup("triangle")
	s.Vertices = s.Vertices[:4]
	d := gputest.New()
	_, err := NewRenderer(s, d, clearColor, silent)
	require.Error(t, err)
	assert.Zero(t, d.LiveObjects())
}

func TestPulseRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := pulse(time.Duration(i) * 100 * time.Millisecond)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestRenderer_TracesFrames(t *testing.T) {
	s, _ := Lookup("triangle")
	var buf bytes.Buffer
	r, err := NewRenderer(s, gputest.New(), clearColor, logging.New(&buf, 5))
	require.NoError(t, err)
	defer r.Close()

	buf.Reset()
	r.Render(gfx.Frame{Index: 7})
	assert.Contains(t, buf.String(), `"msg":"frame"`)
	assert.Contains(t, buf.String(), `"index":7`)

	quiet, err := NewRenderer(s, gputest.New(), clearColor, logging.New(&buf, 4))
	require.NoError(t, err)
	defer quiet.Close()
	buf.Reset()
	quiet.Render(gfx.Frame{Index: 8})
	assert.NotContains(t, buf.String(), `"msg":"frame"`)
}

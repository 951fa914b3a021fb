package gfx

import "time"

// Frame describes the frame being rendered.
type Frame struct {
	Index   uint64
	Elapsed time.Duration
	Width   int
	Height  int
}

type Renderer interface {
	Render(f Frame)
	Close()
}

// Resizer is implemented by renderers that track the framebuffer size,
// typically to update the viewport.
type Resizer interface {
	Resize(width, height int)
}

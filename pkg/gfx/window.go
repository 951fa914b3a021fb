package gfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kjkrol/learngl/internal/platform"
)

type WindowConfig struct {
	Width        int
	Height       int
	Title        string
	GLMajor      int
	GLMinor      int
	CoreProfile  bool
	Resizable    bool
	SwapInterval int
}

func (w WindowConfig) convert() platform.WindowConfig {
	return platform.WindowConfig{
		Width:        w.Width,
		Height:       w.Height,
		Title:        w.Title,
		GLMajor:      w.GLMajor,
		GLMinor:      w.GLMinor,
		CoreProfile:  w.CoreProfile,
		Resizable:    w.Resizable,
		SwapInterval: w.SwapInterval,
	}
}

// ErrClosed is returned by Run once the window has been closed.
var ErrClosed = errors.New("gfx: window closed")

// Window owns a native window, its GL context and the frame loop.
type Window struct {
	platformWinWrapper platform.PlatformWindowWrapper
	renderer           Renderer
	width              int
	height             int
	logger             *slog.Logger
	ctx                context.Context
	cancel             context.CancelFunc
}

// NewWindow creates the window and makes its GL context current on the
// calling thread, which must stay locked to the OS thread.
func NewWindow(conf WindowConfig, logger *slog.Logger) (*Window, error) {
	wrapper, err := platform.NewPlatformWindowWrapper(conf.convert())
	if err != nil {
		return nil, fmt.Errorf("create window %q: %w", conf.Title, err)
	}
	return newWindow(wrapper, conf, logger), nil
}

func newWindow(wrapper platform.PlatformWindowWrapper, conf WindowConfig, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	window := Window{
		platformWinWrapper: wrapper,
		width:              conf.Width,
		height:             conf.Height,
		logger:             logger,
	}
	if fw, fh := wrapper.FramebufferSize(); fw > 0 && fh > 0 {
		window.width, window.height = fw, fh
	}
	window.ctx, window.cancel = context.WithCancel(context.Background())
	return &window
}

func (w *Window) Size() (int, int) {
	if w == nil {
		return 0, 0
	}
	return w.width, w.height
}

// SetRenderer replaces the current renderer, closing the previous one.
func (w *Window) SetRenderer(renderer Renderer) {
	if w == nil {
		return
	}
	if w.renderer != nil {
		w.renderer.Close()
	}
	w.renderer = renderer
	if r, ok := renderer.(Resizer); ok {
		r.Resize(w.width, w.height)
	}
}

// EscapePressed polls the current state of the Escape key.
func (w *Window) EscapePressed() bool {
	if w == nil || w.platformWinWrapper == nil {
		return false
	}
	return w.platformWinWrapper.KeyPressed(KeyEscape)
}

func (w *Window) RequestClose() {
	if w == nil || w.platformWinWrapper == nil {
		return
	}
	w.platformWinWrapper.SetShouldClose(true)
}

// Stop makes a running Run return after the current frame.
func (w *Window) Stop() {
	w.cancel()
}

// Run blocks in the frame loop until the window is asked to close, Stop is
// called or ctx is done: poll input, render, present.
func (w *Window) Run(ctx context.Context, handleEvent EventHandler) error {
	if w == nil || w.platformWinWrapper == nil {
		return ErrClosed
	}
	start := time.Now()
	var index uint64
	for !w.platformWinWrapper.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.ctx.Done():
			return nil
		default:
		}

		for _, platformEvent := range w.platformWinWrapper.PollEvents() {
			event := convert(platformEvent)
			w.handle(event)
			if handleEvent != nil {
				handleEvent(event)
			}
		}
		if w.EscapePressed() {
			w.RequestClose()
		}

		if w.renderer != nil {
			w.renderer.Render(Frame{
				Index:   index,
				Elapsed: time.Since(start),
				Width:   w.width,
				Height:  w.height,
			})
		}
		w.platformWinWrapper.SwapBuffers()
		index++
	}
	return nil
}

func (w *Window) handle(event Event) {
	switch e := event.(type) {
	case KeyPress:
		if e.Code == KeyEscape {
			w.RequestClose()
		}
	case Resize:
		if e.Width <= 0 || e.Height <= 0 {
			// minimised
			return
		}
		w.width, w.height = e.Width, e.Height
		w.logger.Debug("framebuffer resized", "width", e.Width, "height", e.Height)
		if r, ok := w.renderer.(Resizer); ok {
			r.Resize(e.Width, e.Height)
		}
	}
}

// Close releases the renderer, then the window and its context.
func (w *Window) Close() {
	if w == nil || w.platformWinWrapper == nil {
		return
	}
	if w.renderer != nil {
		w.renderer.Close()
		w.renderer = nil
	}
	w.cancel()
	w.platformWinWrapper.Close()
	w.platformWinWrapper = nil
}

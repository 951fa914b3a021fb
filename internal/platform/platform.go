package platform

import "errors"

var ErrUnsupported = errors.New("platform: windowing requires cgo")

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

// PlatformWindowWrapper is a native window owning a current GL context.
// All methods must be called from the thread that created it.
type PlatformWindowWrapper interface {
	ShouldClose() bool
	SetShouldClose(bool)
	// PollEvents processes pending native events and returns the ones
	// received since the previous call.
	PollEvents() []Event
	KeyPressed(code uint64) bool
	FramebufferSize() (int, int)
	SwapBuffers()
	Close()
}

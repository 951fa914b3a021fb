//go:build cgo

package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type glfwWindowWrapper struct {
	window *glfw.Window
	events []Event
}

func NewPlatformWindowWrapper(conf WindowConfig) (PlatformWindowWrapper, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, conf.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, conf.GLMinor)
	if conf.CoreProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		if runtime.GOOS == "darwin" {
			glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		}
	}
	if conf.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	window, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(conf.SwapInterval)

	w := &glfwWindowWrapper{window: window}
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.events = append(w.events, Resize{Width: width, Height: height})
	})
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
		label := glfw.GetKeyName(key, scancode)
		switch action {
		case glfw.Press:
			w.events = append(w.events, KeyPress{Code: uint64(key), Label: label})
		case glfw.Release:
			w.events = append(w.events, KeyRelease{Code: uint64(key), Label: label})
		}
	})
	window.SetCloseCallback(func(_ *glfw.Window) {
		w.events = append(w.events, DestroyNotify{})
	})
	return w, nil
}

func (w *glfwWindowWrapper) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *glfwWindowWrapper) SetShouldClose(v bool) {
	w.window.SetShouldClose(v)
}

func (w *glfwWindowWrapper) PollEvents() []Event {
	glfw.PollEvents()
	events := w.events
	w.events = nil
	return events
}

func (w *glfwWindowWrapper) KeyPressed(code uint64) bool {
	return w.window.GetKey(glfw.Key(code)) == glfw.Press
}

func (w *glfwWindowWrapper) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

func (w *glfwWindowWrapper) SwapBuffers() {
	w.window.SwapBuffers()
}

func (w *glfwWindowWrapper) Close() {
	w.window.Destroy()
	glfw.Terminate()
}

package gfx

import "github.com/kjkrol/learngl/internal/platform"

type Event interface{}

const KeyEscape = platform.KeyEscape

type KeyPress struct {
	Code  uint64
	Label string
}
type KeyRelease struct {
	Code  uint64
	Label string
}
type Resize struct {
	Width, Height int
}
type DestroyNotify struct{}
type UnexpectedEvent struct{}

type EventHandler func(Event)

// Chain calls every non-nil handler in order.
func Chain(handlers ...EventHandler) EventHandler {
	return func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}

func convert(event platform.Event) Event {
	switch e := event.(type) {
	case platform.KeyPress:
		return KeyPress{Code: e.Code, Label: e.Label}
	case platform.KeyRelease:
		return KeyRelease{Code: e.Code, Label: e.Label}
	case platform.Resize:
		return Resize{Width: e.Width, Height: e.Height}
	case platform.DestroyNotify:
		return DestroyNotify{}
	default:
		return UnexpectedEvent{}
	}
}

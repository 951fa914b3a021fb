package platform

type Event interface{}

// KeyEscape follows the GLFW key numbering.
const KeyEscape uint64 = 256

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

package window

// Event is a window or input event returned by Window.PollEvents. The concrete types are
// EventResize, EventClose, EventKey, EventMouseButton, EventScroll, EventMouseMotion and
// EventRedraw.
type Event interface {
	isEvent()
}

// EventResize reports a new framebuffer size in pixels. Zero is reported when minimized.
type EventResize struct {
	Width, Height int
}

// EventClose reports that the user asked to close the window.
type EventClose struct{}

// EventKey reports a key press, repeat or release. Key is a GLFW key code, see common.Key*.
type EventKey struct {
	Key     int
	Pressed bool
	Repeat  bool
}

// EventMouseButton reports a mouse button press or release. Button matches common.MouseButton*.
type EventMouseButton struct {
	Button  int
	Pressed bool
}

// EventScroll reports vertical wheel movement. Positive is away from the user.
type EventScroll struct {
	Delta float64
}

// EventMouseMotion reports cursor movement since the previous cursor event, in pixels.
type EventMouseMotion struct {
	DX, DY float64
}

// EventRedraw reports that the window contents were damaged and need repainting.
type EventRedraw struct{}

func (EventResize) isEvent()      {}
func (EventClose) isEvent()       {}
func (EventKey) isEvent()         {}
func (EventMouseButton) isEvent() {}
func (EventScroll) isEvent()      {}
func (EventMouseMotion) isEvent() {}
func (EventRedraw) isEvent()      {}

// Package window owns the OS window and turns its callbacks into a queue of Events that the
// frame loop drains once per iteration.
package window

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// PollEvents pumps the platform event loop without blocking and returns every event
	// received since the previous call, oldest first.
	//
	// Returns:
	//   - []Event: the pending events, possibly empty
	PollEvents() []Event

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, the platform window and the pending event queue.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound interactive resizing.
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// events queues translated callbacks until PollEvents drains them.
	events []Event

	// lastX and lastY are the previous cursor position; hasCursor is false until the first one.
	lastX, lastY float64
	hasCursor    bool
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with the specified options.
// Applies default values first, then each option in order. Must be called from the main
// thread, which must stay locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: a KindFatalInit error if GLFW or the window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-viewer",
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) PollEvents() []Event {
	platformPollEvents(w)
	events := w.events
	w.events = nil
	return events
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// The push helpers translate platform callbacks into queued events.

func (w *engineWindow) pushResize(width, height int) {
	w.width, w.height = width, height
	w.events = append(w.events, EventResize{Width: width, Height: height})
}

func (w *engineWindow) pushClose() {
	w.events = append(w.events, EventClose{})
}

func (w *engineWindow) pushRedraw() {
	w.events = append(w.events, EventRedraw{})
}

// pushKey queues a key event. action is 0 for release, 1 for press and 2 for repeat,
// matching glfw.Action.
func (w *engineWindow) pushKey(key, action int) {
	if key < 0 {
		return
	}
	w.events = append(w.events, EventKey{Key: key, Pressed: action != 0, Repeat: action == 2})
}

func (w *engineWindow) pushMouseButton(button int, pressed bool) {
	w.events = append(w.events, EventMouseButton{Button: button, Pressed: pressed})
}

func (w *engineWindow) pushScroll(yoff float64) {
	if yoff == 0 {
		return
	}
	w.events = append(w.events, EventScroll{Delta: yoff})
}

// pushCursor converts absolute cursor positions into motion deltas. The first position
// only seeds the tracker.
func (w *engineWindow) pushCursor(x, y float64) {
	if !w.hasCursor {
		w.lastX, w.lastY, w.hasCursor = x, y, true
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}
	w.events = append(w.events, EventMouseMotion{DX: dx, DY: dy})
}

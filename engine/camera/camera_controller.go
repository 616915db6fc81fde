package camera

import "time"

// CameraController turns raw input into camera motion. Input methods only queue work;
// the camera is changed solely by UpdateCamera, which drains the queue once per tick.
type CameraController interface {
	// ProcessKeyboard queues a movement key press or release.
	// W/Up, S/Down, A/Left, D/Right, Space and LeftShift are movement keys.
	//
	// Parameters:
	//   - key: the key code (see common.Key*)
	//   - pressed: true on press, false on release
	//
	// Returns:
	//   - bool: true if the key is a movement key and was queued
	ProcessKeyboard(key int, pressed bool) bool

	// ProcessMouseButton tracks the look button. Mouse motion is only queued while it is held.
	//
	// Parameters:
	//   - button: the mouse button (see common.MouseButton*)
	//   - pressed: true on press, false on release
	//
	// Returns:
	//   - bool: true if the button is the look button
	ProcessMouseButton(button int, pressed bool) bool

	// ProcessMouseMotion queues a cursor delta if the look button is held.
	//
	// Parameters:
	//   - dx, dy: the cursor movement in pixels since the previous event
	//
	// Returns:
	//   - bool: true if the delta was queued
	ProcessMouseMotion(dx, dy float64) bool

	// ProcessScroll queues a scroll delta. Scrolling is never gated.
	//
	// Parameters:
	//   - delta: the vertical wheel delta, positive away from the user
	ProcessScroll(delta float64)

	// UpdateCamera drains the pending input and integrates it into the camera.
	// Latched key state survives the call. Mouse and scroll deltas do not.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - dt: time elapsed since the previous update
	UpdateCamera(cam Camera, dt time.Duration)

	// Pending returns the number of queued, unconsumed input entries.
	Pending() int

	// LookHeld reports whether the look button is currently down.
	LookHeld() bool

	// Speed returns the movement speed in world units per second.
	Speed() float32

	// Sensitivity returns the look sensitivity in radians per pixel per second.
	Sensitivity() float32

	// PitchLimit returns the pitch clamp in radians.
	PitchLimit() float32
}

package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSpeed sets the movement speed in world units per second.
//
// Parameters:
//   - speed: the movement speed
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithSensitivity sets the look sensitivity.
//
// Parameters:
//   - sensitivity: radians per pixel per second
//
// Returns:
//   - CameraControllerOption: functional option to set the sensitivity
func WithSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sensitivity = sensitivity
	}
}

// WithScrollScale scales scroll deltas before they are added to the pitch input.
//
// Parameters:
//   - scale: multiplier for wheel deltas
//
// Returns:
//   - CameraControllerOption: functional option to set the scroll scale
func WithScrollScale(scale float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.scrollScale = scale
	}
}

// WithPitchLimit sets the symmetric pitch clamp in degrees. Values outside (0, 90) are ignored.
//
// Parameters:
//   - degrees: the maximum absolute pitch
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithPitchLimit(degrees float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if degrees > 0 && degrees < 90 {
			cc.pitchLimit = mgl32.DegToRad(degrees)
		}
	}
}

// WithLookButton selects the mouse button that enables mouse look.
//
// Parameters:
//   - button: the mouse button (see common.MouseButton*)
//
// Returns:
//   - CameraControllerOption: functional option to set the look button
func WithLookButton(button int) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.lookButton = button
	}
}

package camera

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option applied by NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - pos: the camera position
//
// Returns:
//   - CameraBuilderOption: a function that sets the position
func WithPosition(pos mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = pos
	}
}

// WithYaw sets the initial yaw in radians.
//
// Parameters:
//   - yaw: yaw angle in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
	}
}

// WithPitch sets the initial pitch in radians.
//
// Parameters:
//   - pitch: pitch angle in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = pitch
	}
}

// WithBindGroupProvider replaces the provider that will hold the camera's GPU resources.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: a function that sets the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}

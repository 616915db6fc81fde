package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// worldUp is the fixed up vector used by the view matrix and vertical movement.
var worldUp = mgl32.Vec3{0, 1, 0}

type cameraImpl struct {
	position mgl32.Vec3
	yaw      float32
	pitch    float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a free-fly camera described by a world position and two angles.
// There is no roll. The camera itself never reads input; a CameraController moves it.
type Camera interface {
	// Position returns the world-space position of the camera.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	Position() mgl32.Vec3

	// Yaw returns the rotation around the world Y axis in radians.
	// A yaw of -Pi/2 looks down -Z.
	//
	// Returns:
	//   - float32: the yaw angle in radians
	Yaw() float32

	// Pitch returns the elevation above the horizon in radians.
	//
	// Returns:
	//   - float32: the pitch angle in radians
	Pitch() float32

	// Forward returns the unit view direction derived from yaw and pitch.
	//
	// Returns:
	//   - mgl32.Vec3: the normalised forward vector
	Forward() mgl32.Vec3

	// ViewMatrix returns the look-to transform built from the position, Forward and world up.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// BindGroupProvider returns the provider holding the camera uniform buffer and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetPosition moves the camera.
	//
	// Parameters:
	//   - pos: the new world-space position
	SetPosition(pos mgl32.Vec3)

	// SetYaw sets the yaw angle in radians.
	//
	// Parameters:
	//   - yaw: the new yaw
	SetYaw(yaw float32)

	// SetPitch sets the pitch angle in radians. No clamping is applied here.
	//
	// Parameters:
	//   - pitch: the new pitch
	SetPitch(pitch float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 5, 10) looking down -Z and tilted 20 degrees down.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		position: mgl32.Vec3{0, 5, 10},
		yaw:      mgl32.DegToRad(-90),
		pitch:    mgl32.DegToRad(-20),
	}
	for _, option := range options {
		option(c)
	}
	if c.bindGroupProvider == nil {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider("camera")
	}
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return c.position
}

func (c *cameraImpl) Yaw() float32 {
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	return c.pitch
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	sinPitch, cosPitch := math.Sincos(float64(c.pitch))
	sinYaw, cosYaw := math.Sincos(float64(c.yaw))
	return mgl32.Vec3{
		float32(cosPitch * cosYaw),
		float32(sinPitch),
		float32(cosPitch * sinYaw),
	}.Normalize()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.Forward()), worldUp)
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

func (c *cameraImpl) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

func (c *cameraImpl) SetYaw(yaw float32) {
	c.yaw = yaw
}

func (c *cameraImpl) SetPitch(pitch float32) {
	c.pitch = pitch
}

// ViewProjection combines a camera and a projection into the matrix that maps world
// coordinates to WebGPU clip space.
//
// Parameters:
//   - cam: the camera providing the view matrix
//   - proj: the projection providing the depth-corrected perspective matrix
//
// Returns:
//   - mgl32.Mat4: proj.Matrix() * cam.ViewMatrix()
func ViewProjection(cam Camera, proj Projection) mgl32.Mat4 {
	return proj.Matrix().Mul4(cam.ViewMatrix())
}

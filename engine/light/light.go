// Package light holds the single point light that orbits the world Y axis.
package light

import (
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// RotationPolicy selects how the light position advances each tick.
type RotationPolicy int

const (
	// RotateInPlace rotates the current position by rate * dt every tick.
	// Rounding error compounds over long sessions, so the orbit radius may drift slowly.
	RotateInPlace RotationPolicy = iota

	// AngleAccumulator keeps the initial position and a wrapped total angle, and recomputes
	// the position from them every tick. The orbit radius never drifts.
	AngleAccumulator
)

// String returns the config name of the policy.
func (p RotationPolicy) String() string {
	switch p {
	case AngleAccumulator:
		return "accumulator"
	default:
		return "in_place"
	}
}

// ParseRotationPolicy maps a config name to a policy. Unknown names map to RotateInPlace.
func ParseRotationPolicy(name string) RotationPolicy {
	if name == AngleAccumulator.String() {
		return AngleAccumulator
	}
	return RotateInPlace
}

type lightImpl struct {
	position mgl32.Vec4
	initial  mgl32.Vec4
	color    mgl32.Vec4
	rate     float32
	angle    float32
	policy   RotationPolicy

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Light is a point light with a homogeneous position and an RGBA color.
// Update advances it around the world Y axis.
type Light interface {
	// Position returns the homogeneous world-space position.
	//
	// Returns:
	//   - mgl32.Vec4: the position, w = 1
	Position() mgl32.Vec4

	// Color returns the RGBA color.
	//
	// Returns:
	//   - mgl32.Vec4: the color
	Color() mgl32.Vec4

	// Rate returns the rotation rate in radians per second.
	Rate() float32

	// Policy returns the rotation policy.
	Policy() RotationPolicy

	// Update advances the light by rate * dt around world Y.
	//
	// Parameters:
	//   - dt: time elapsed since the previous update
	Update(dt time.Duration)

	// Uniform returns the GPU representation of the light.
	//
	// Returns:
	//   - GPULightUniform: the packed position and color
	Uniform() GPULightUniform

	// BindGroupProvider returns the provider holding the light uniform buffer and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Light = &lightImpl{}

// NewLight creates a white light at (2, 2, 2) rotating at 60 degrees per second in place.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		position: mgl32.Vec4{2, 2, 2, 1},
		color:    mgl32.Vec4{1, 1, 1, 1},
		rate:     mgl32.DegToRad(60),
		policy:   RotateInPlace,
	}
	for _, option := range options {
		option(l)
	}
	l.initial = l.position
	if l.bindGroupProvider == nil {
		l.bindGroupProvider = bind_group_provider.NewBindGroupProvider("light")
	}
	return l
}

func (l *lightImpl) Position() mgl32.Vec4 {
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec4 {
	return l.color
}

func (l *lightImpl) Rate() float32 {
	return l.rate
}

func (l *lightImpl) Policy() RotationPolicy {
	return l.policy
}

func (l *lightImpl) Update(dt time.Duration) {
	step := l.rate * float32(dt.Seconds())
	switch l.policy {
	case AngleAccumulator:
		l.angle = common.WrapAngle(l.angle + step)
		l.position = mgl32.HomogRotate3DY(l.angle).Mul4x1(l.initial)
	default:
		l.position = mgl32.HomogRotate3DY(step).Mul4x1(l.position)
	}
}

func (l *lightImpl) Uniform() GPULightUniform {
	return GPULightUniform{
		Position: l.position,
		Color:    l.color,
	}
}

func (l *lightImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return l.bindGroupProvider
}

package light

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a functional option applied by NewLight.
type LightBuilderOption func(*lightImpl)

// WithPosition sets the initial homogeneous position.
//
// Parameters:
//   - pos: the light position, normally with w = 1
//
// Returns:
//   - LightBuilderOption: a function that sets the position
func WithPosition(pos mgl32.Vec4) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = pos
	}
}

// WithColor sets the RGBA color.
//
// Parameters:
//   - color: the light color
//
// Returns:
//   - LightBuilderOption: a function that sets the color
func WithColor(color mgl32.Vec4) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithRotationRate sets the rotation rate in radians per second.
//
// Parameters:
//   - rate: the angular speed around world Y
//
// Returns:
//   - LightBuilderOption: a function that sets the rate
func WithRotationRate(rate float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.rate = rate
	}
}

// WithRotationPolicy selects how the position advances.
//
// Parameters:
//   - policy: RotateInPlace or AngleAccumulator
//
// Returns:
//   - LightBuilderOption: a function that sets the policy
func WithRotationPolicy(policy RotationPolicy) LightBuilderOption {
	return func(l *lightImpl) {
		l.policy = policy
	}
}

// WithBindGroupProvider replaces the provider that will hold the light's GPU resources.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - LightBuilderOption: a function that sets the provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) LightBuilderOption {
	return func(l *lightImpl) {
		l.bindGroupProvider = provider
	}
}

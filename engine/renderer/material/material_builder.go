package material

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
)

// MaterialBuilderOption is a functional option applied by NewMaterial.
type MaterialBuilderOption func(*material)

// WithName sets the material identifier.
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor sets the Kd color.
//
// Parameters:
//   - rgba: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that sets the base color
func WithBaseColor(rgba [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = rgba
	}
}

// WithDiffuseTexture sets the map_Kd reference.
func WithDiffuseTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}

// WithStaging sets the decoded diffuse pixels.
//
// Parameters:
//   - staging: the decoded pixels, or nil to fall back to the base color
//
// Returns:
//   - MaterialBuilderOption: a function that sets the staging data
func WithStaging(staging *common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.staging = staging
	}
}

// WithSampler overrides the sampler configuration.
func WithSampler(s common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = s
	}
}

// WithBindGroupProvider replaces the default provider.
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}

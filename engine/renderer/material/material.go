// Package material holds the render material bound at group 0 of the model shader: a
// diffuse texture with its sampler.
package material

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
)

// Bindings within the material bind group.
const (
	DiffuseTextureBinding = 0
	DiffuseSamplerBinding = 1
)

type material struct {
	name              string
	baseColor         [4]float32
	diffuseTexture    *common.ImportedTexture
	staging           *common.TextureStagingData
	sampler           common.SamplerStagingData
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material is a diffuse surface. Surface properties are fixed at load time; the bind group
// provider is filled by the Renderer once the texture is uploaded.
type Material interface {
	// Name returns the material identifier.
	Name() string

	// BaseColor returns the Kd color as RGBA.
	//
	// Returns:
	//   - [4]float32: the base color
	BaseColor() [4]float32

	// DiffuseTexture returns the map_Kd reference, or nil when the material has none.
	DiffuseTexture() *common.ImportedTexture

	// Texture returns the pixels to upload for the diffuse binding. Decoded pixels are used
	// when present; otherwise a 1x1 texel of the base color stands in.
	//
	// Returns:
	//   - common.TextureStagingData: RGBA pixels
	Texture() common.TextureStagingData

	// Sampler returns the sampler configuration for the diffuse binding.
	Sampler() common.SamplerStagingData

	// BindGroupProvider returns the provider holding the material's texture view, sampler
	// and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Material = &material{}

// NewMaterial creates a material. Without options it is an opaque white surface.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the new material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		name:      "default",
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider("material:" + m.name)
	}
	return m
}

// FromImported converts a loader material into a render material.
//
// Parameters:
//   - imp: the imported material, with Staging set when its texture was decoded
//
// Returns:
//   - Material: the render material
func FromImported(imp common.ImportedMaterial) Material {
	return NewMaterial(
		WithName(imp.Name),
		WithBaseColor(imp.DiffuseColor),
		WithDiffuseTexture(imp.DiffuseTexture),
		WithStaging(imp.Staging),
	)
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) Texture() common.TextureStagingData {
	if m.staging != nil && len(m.staging.Pixels) > 0 {
		return *m.staging
	}
	return common.SolidTexel(m.baseColor)
}

func (m *material) Sampler() common.SamplerStagingData {
	return m.sampler
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

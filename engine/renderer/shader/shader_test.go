package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/instance"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locations(inputs []VertexInput) []uint32 {
	out := make([]uint32, len(inputs))
	for i, in := range inputs {
		out[i] = in.Location
	}
	return out
}

func TestModelShaderReflection(t *testing.T) {
	s, err := NewShader("model", ModelSource)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Equal(t, "model", s.Module().Label)

	groups := s.BindGroupLayoutDescriptors()
	require.Len(t, groups, 3)

	require.Len(t, groups[0].Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, groups[0].Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, groups[0].Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, groups[0].Entries[1].Sampler.Type)

	require.Len(t, groups[1].Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, groups[1].Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), groups[1].Entries[0].Buffer.MinBindingSize)

	require.Len(t, groups[2].Entries, 1)
	assert.Equal(t, uint64(32), groups[2].Entries[0].Buffer.MinBindingSize)

	assert.Equal(t, "camera", s.BindingName(1, 0))
	assert.Equal(t, "s_diffuse", s.BindingName(0, 1))
	assert.Empty(t, s.BindingName(3, 0))

	assert.Equal(t, []uint32{0, 1, 2, 5, 6, 7, 8, 9, 10, 11}, locations(s.VertexInputs()))
}

func TestModelShaderAcceptsMeshAndInstanceLayouts(t *testing.T) {
	s, err := NewShader("model", ModelSource)
	require.NoError(t, err)

	assert.NoError(t, s.ValidateVertexLayouts([]wgpu.VertexBufferLayout{
		model.VertexBufferLayout(),
		instance.VertexBufferLayout(),
	}))

	err = s.ValidateVertexLayouts([]wgpu.VertexBufferLayout{model.VertexBufferLayout()})
	require.Error(t, err)
	kind, ok := common.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, common.KindFatalInit, kind)
}

func TestLightShaderReflection(t *testing.T) {
	s, err := NewShader("light", LightSource)
	require.NoError(t, err)

	groups := s.BindGroupLayoutDescriptors()
	require.Len(t, groups, 2)
	assert.Equal(t, uint64(80), groups[0].Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(32), groups[1].Entries[0].Buffer.MinBindingSize)

	assert.NoError(t, s.ValidateVertexLayouts([]wgpu.VertexBufferLayout{model.VertexBufferLayout()}))

	_, ok := s.BindGroupLayoutDescriptor(2)
	assert.False(t, ok)
}

func TestValidateRejectsFormatMismatch(t *testing.T) {
	s, err := NewShader("light", LightSource)
	require.NoError(t, err)

	layout := model.VertexBufferLayout()
	layout.Attributes[0].Format = wgpu.VertexFormatFloat32x4
	assert.Error(t, s.ValidateVertexLayouts([]wgpu.VertexBufferLayout{layout}))
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "missing fragment",
			source: "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(); }",
		},
		{
			name:   "missing vertex",
			source: "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(); }",
		},
		{
			name: "group gap",
			source: `
@group(1) @binding(0) var<uniform> v: vec4<f32>;
@vertex fn vs() -> @builtin(position) vec4<f32> { return v; }
@fragment fn fs() -> @location(0) vec4<f32> { return v; }`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader(tt.name, tt.source)
			require.Error(t, err)
			assert.True(t, common.IsFatal(err))
		})
	}
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c"
	assert.Equal(t, "a \nb  c", stripComments(src))
}

package pipeline

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option applied by NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShader sets the shader providing both entry points.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithVertexLayouts sets the vertex buffer layouts, in slot order.
//
// Parameters:
//   - layouts: slot 0 is the mesh vertex buffer, slot 1 the optional instance buffer
//
// Returns:
//   - PipelineBuilderOption: a function that sets the layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithBindGroupLayouts overrides the bind group layouts reflected from the shader.
//
// Parameters:
//   - layouts: descriptors in group order
//
// Returns:
//   - PipelineBuilderOption: a function that sets the layouts
func WithBindGroupLayouts(layouts ...wgpu.BindGroupLayoutDescriptor) PipelineBuilderOption {
	return func(p *pipeline) {
		p.groupLayouts = layouts
	}
}

// WithDepthFormat sets the depth attachment format. TextureFormatUndefined disables the
// depth-stencil state.
func WithDepthFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthFormat = format
	}
}

// WithDepthTestEnabled toggles depth testing and writing.
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithCullMode sets the face culling mode.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithBlend sets the color target blend state.
//
// Parameters:
//   - blend: the blend state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state
func WithBlend(blend *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blend = blend
	}
}

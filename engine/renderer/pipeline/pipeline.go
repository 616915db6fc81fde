// Package pipeline describes render pipelines: the shader, vertex buffer layouts and fixed
// function state, plus the GPU objects the Renderer creates from them.
package pipeline

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type pipeline struct {
	key           string
	shader        shader.Shader
	vertexLayouts []wgpu.VertexBufferLayout
	groupLayouts  []wgpu.BindGroupLayoutDescriptor

	depthFormat      wgpu.TextureFormat
	depthTestEnabled bool
	cullMode         wgpu.CullMode
	frontFace        wgpu.FrontFace
	topology         wgpu.PrimitiveTopology
	writeMask        wgpu.ColorWriteMask
	blend            *wgpu.BlendState

	// Set by the Renderer.
	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts []*wgpu.BindGroupLayout
}

// Pipeline is a render pipeline description and, once built, its GPU objects.
type Pipeline interface {
	// Key returns the unique pipeline key used for caching and draw commands.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// Shader returns the shader holding both entry points.
	Shader() shader.Shader

	// VertexLayouts returns the vertex buffer layouts in slot order.
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors returns the bind group layouts in group order: the
	// explicit ones when set, otherwise those reflected from the shader.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: descriptors in group order
	BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor

	// DepthFormat returns the depth attachment format, or TextureFormatUndefined for none.
	DepthFormat() wgpu.TextureFormat

	// DepthTestEnabled reports whether fragments are depth tested and written.
	DepthTestEnabled() bool

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// FrontFace returns the winding order treated as front facing.
	FrontFace() wgpu.FrontFace

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// WriteMask returns the color write mask.
	WriteMask() wgpu.ColorWriteMask

	// Blend returns the color blend state.
	Blend() *wgpu.BlendState

	// RenderPipeline returns the GPU pipeline, or nil before the Renderer builds it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the GPU layout created for group, or nil.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// BindGroupLayouts returns the GPU layouts in group order.
	BindGroupLayouts() []*wgpu.BindGroupLayout

	// SetRenderPipeline stores the GPU pipeline built by the Renderer.
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// SetBindGroupLayouts stores the GPU layouts built by the Renderer.
	SetBindGroupLayouts(layouts []*wgpu.BindGroupLayout)

	// Release frees the GPU pipeline and its bind group layouts.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline description. Defaults: triangle list, counter-clockwise
// front faces, back-face culling, depth test with Depth32Float, replace blending.
//
// Parameters:
//   - key: the unique pipeline key
//   - opts: functional options to configure the pipeline
//
// Returns:
//   - Pipeline: the new pipeline
func NewPipeline(key string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:              key,
		depthFormat:      wgpu.TextureFormatDepth32Float,
		depthTestEnabled: true,
		cullMode:         wgpu.CullModeBack,
		frontFace:        wgpu.FrontFaceCCW,
		topology:         wgpu.PrimitiveTopologyTriangleList,
		writeMask:        wgpu.ColorWriteMaskAll,
	}
	replace := wgpu.BlendStateReplace
	p.blend = &replace
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	if p.groupLayouts != nil || p.shader == nil {
		return p.groupLayouts
	}
	return p.shader.BindGroupLayoutDescriptors()
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) Blend() *wgpu.BlendState {
	return p.blend
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) BindGroupLayouts() []*wgpu.BindGroupLayout {
	return p.bindGroupLayouts
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) SetBindGroupLayouts(layouts []*wgpu.BindGroupLayout) {
	p.bindGroupLayouts = layouts
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	for _, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
	}
	p.bindGroupLayouts = nil
}

// RenderPipelineDescriptor assembles the descriptor for device.CreateRenderPipeline.
//
// Parameters:
//   - p: the pipeline description
//   - layout: the pipeline layout built from the shader's bind group layouts
//   - module: the compiled shader module
//   - colorFormat: the surface format of the color target
//
// Returns:
//   - *wgpu.RenderPipelineDescriptor: the descriptor
func RenderPipelineDescriptor(p Pipeline, layout *wgpu.PipelineLayout, module *wgpu.ShaderModule, colorFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	var depth *wgpu.DepthStencilState
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		depth = &wgpu.DepthStencilState{
			Format:            p.DepthFormat(),
			DepthWriteEnabled: p.DepthTestEnabled(),
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
		if p.DepthTestEnabled() {
			depth.DepthCompare = wgpu.CompareFunctionLess
		}
	}

	var vertexEntry, fragmentEntry string
	if s := p.Shader(); s != nil {
		vertexEntry, fragmentEntry = s.VertexEntryPoint(), s.FragmentEntryPoint()
	}

	return &wgpu.RenderPipelineDescriptor{
		Label:  p.Key(),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: vertexEntry,
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: fragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				Blend:     p.Blend(),
				WriteMask: p.WriteMask(),
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		DepthStencil: depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

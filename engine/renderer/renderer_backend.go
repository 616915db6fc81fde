package renderer

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear but has the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps "vsync" and "uncapped" to a PresentMode. Anything else is VSync.
func ParsePresentMode(s string) PresentMode {
	if strings.EqualFold(s, "uncapped") {
		return PresentModeUncapped
	}
	return PresentModeVSync
}

// ParseDepthFormat maps "depth24plus" to TextureFormatDepth24Plus. Anything else is Depth32Float.
func ParseDepthFormat(s string) wgpu.TextureFormat {
	if strings.EqualFold(s, "depth24plus") {
		return wgpu.TextureFormatDepth24Plus
	}
	return wgpu.TextureFormatDepth32Float
}

// SurfaceConfig is the swapchain configuration. The depth texture always has its size.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      wgpu.TextureFormat
	DepthFormat wgpu.TextureFormat
	PresentMode PresentMode
}

// DrawCommand is one indexed draw inside the frame's render pass.
type DrawCommand struct {
	// PipelineKey selects a pipeline registered with BuildPipeline.
	PipelineKey string

	// Mesh supplies the vertex buffer bound at slot 0 and the index buffer.
	Mesh bind_group_provider.BindGroupProvider

	// Instances supplies the per-instance vertex buffer at slot 1, or nil.
	Instances bind_group_provider.BindGroupProvider

	// InstanceCount is the number of instances drawn. Zero draws nothing.
	InstanceCount uint32

	// BindGroups are bound in order starting at group 0.
	BindGroups []bind_group_provider.BindGroupProvider
}

// RendererBackend is the GPU API the Renderer drives. The Renderer owns the sequencing
// and bookkeeping; a backend only issues the calls.
type RendererBackend interface {
	// SurfaceFormat returns the color format chosen for the surface.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// ConfigureSurface applies cfg to the surface.
	//
	// Parameters:
	//   - cfg: the swapchain configuration
	//
	// Returns:
	//   - error: an error if the surface could not be configured
	ConfigureSurface(cfg SurfaceConfig) error

	// CreateDepthTexture replaces the depth attachment with one of the given size and format.
	//
	// Parameters:
	//   - width: the width in pixels
	//   - height: the height in pixels
	//   - format: the depth format
	//
	// Returns:
	//   - error: an error if the texture or its view could not be created
	CreateDepthTexture(width, height uint32, format wgpu.TextureFormat) error

	// CreateRenderPipeline compiles p's shader, creates its bind group layouts and pipeline
	// layout, and stores the results on p.
	//
	// Parameters:
	//   - p: the pipeline description
	//   - colorFormat: the color target format
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	CreateRenderPipeline(p pipeline.Pipeline, colorFormat wgpu.TextureFormat) error

	// InitMeshBuffers creates and fills the vertex and index buffers of a mesh provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitVertexBuffer creates and fills a standalone vertex buffer, such as instance data.
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error

	// InitBindGroup creates the uniform buffers a layout needs and the bind group itself.
	// Texture and sampler bindings must already be initialized on the provider.
	//
	// Parameters:
	//   - provider: the provider receiving the resources
	//   - layout: the GPU layout to create the bind group against
	//   - descriptor: the descriptor the layout was created from
	//
	// Returns:
	//   - error: an error if a resource is missing or could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads RGBA8 pixels to a new sRGB texture and stores its view.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error

	// InitSampler creates a sampler and stores it.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error

	// WriteBuffers queues the writes. Writes whose target buffer is missing are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// AcquireSurfaceTexture acquires the next swapchain image and holds it for the frame.
	//
	// Returns:
	//   - error: the raw acquire failure; the Renderer classifies it
	AcquireSurfaceTexture() error

	// BeginRenderPass opens the frame's single render pass, clearing color and depth.
	BeginRenderPass(clear wgpu.Color) error

	// DrawCall encodes one draw with a built pipeline.
	DrawCall(p pipeline.Pipeline, cmd DrawCommand)

	// EndRenderPass ends the pass, finishes the encoder and submits it.
	EndRenderPass() error

	// Present presents the held image and releases it.
	Present()

	// Release frees every GPU object the backend owns.
	Release()
}

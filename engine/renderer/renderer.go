// Package renderer owns the GPU context: surface configuration, the depth buffer, pipeline
// construction, resource creation and the per-frame render pass.
package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// SurfaceSource is what the Renderer needs from a window: a surface to draw into and its
// initial size in pixels.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

type renderer struct {
	mu *sync.Mutex

	backend       RendererBackend
	config        SurfaceConfig
	pipelineCache map[string]pipeline.Pipeline
	clearColor    wgpu.Color
	inFrame       bool

	// Collected from builder options before the backend exists.
	forceFallbackAdapter bool
	presentMode          PresentMode
	depthFormat          wgpu.TextureFormat
}

// Renderer is the GPU context. It is created once at startup, mutated only by Resize and
// Reconfigure, and torn down by Release. All methods must be called from the thread that
// created it.
//
// A frame is BeginFrame, any number of Draw calls, EndFrame, then Present.
type Renderer interface {
	// Size returns the current surface size.
	//
	// Returns:
	//   - uint32: the width in pixels
	//   - uint32: the height in pixels
	Size() (uint32, uint32)

	// SurfaceFormat returns the color format of the surface.
	SurfaceFormat() wgpu.TextureFormat

	// SurfaceConfig returns the current swapchain configuration.
	SurfaceConfig() SurfaceConfig

	// Resize reconfigures the surface and recreates the depth texture at the new size.
	// A zero dimension (a minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// On failure the previous size is kept and re-applied, so the surface, the depth texture
	// and SurfaceConfig never disagree.
	//
	// Returns:
	//   - bool: true if the surface was reconfigured at the new size
	//   - error: a KindFatalRuntime error if the surface could not be reconfigured
	Resize(width, height int) (bool, error)

	// Reconfigure re-applies the current configuration, recreating the surface swapchain
	// and the depth texture. Used to recover a lost surface.
	//
	// Returns:
	//   - error: a KindFatalRuntime error if the surface cannot be reconfigured
	Reconfigure() error

	// BuildPipeline creates the GPU objects for p and caches it by key. A key that is
	// already cached is left untouched.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: a KindFatalInit error if the shader or pipeline cannot be created
	BuildPipeline(p pipeline.Pipeline) error

	// Pipeline returns the cached pipeline for key, or nil.
	Pipeline(key string) pipeline.Pipeline

	// InitMeshBuffers uploads a mesh's vertices and indices onto provider.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: packed vertices
	//   - indexData: packed uint32 indices
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: a KindFatalInit error if the buffers cannot be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitVertexBuffer uploads a standalone vertex buffer, such as instance records, onto provider.
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error

	// InitBindGroup creates provider's bind group against group of the cached pipeline.
	//
	// Parameters:
	//   - provider: the provider receiving the bind group
	//   - pipelineKey: the pipeline whose layout is used
	//   - group: the bind group index within that pipeline
	//
	// Returns:
	//   - error: a KindFatalInit error if the pipeline or group is unknown or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, group int) error

	// InitTextureView uploads a texture for binding on provider.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error

	// InitSampler creates a sampler for binding on provider.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error

	// WriteBuffers queues buffer writes. They land before the next submitted frame.
	//
	// Parameters:
	//   - writes: the writes, applied in order
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface image and opens the render pass.
	//
	// Returns:
	//   - error: a *common.Error of kind KindRecoverableSurface, KindTransientSurface or
	//     KindFatalRuntime when the frame cannot start
	BeginFrame() error

	// Draw encodes cmd in the open render pass.
	//
	// Parameters:
	//   - cmd: the draw command
	//
	// Returns:
	//   - error: a KindFatalRuntime error if no frame is open, the pipeline is unknown or the
	//     mesh has no buffers
	Draw(cmd DrawCommand) error

	// EndFrame ends the render pass and submits the frame's commands.
	EndFrame() error

	// Present presents the frame's image.
	Present()

	// Release frees every pipeline and the GPU context.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU context for src: adapter, device, queue and surface, then
// configures the surface and depth texture at src's size.
//
// Parameters:
//   - src: the window providing the surface
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the GPU context
//   - error: a KindFatalInit error if any step fails
func NewRenderer(src SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	const op = "renderer.NewRenderer"
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		clearColor:    wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		presentMode:   PresentModeVSync,
		depthFormat:   wgpu.TextureFormatDepth32Float,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		backend, err := newWGPURendererBackend(src.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, common.NewError(common.KindFatalInit, op, err)
		}
		r.backend = backend
	}

	r.config = SurfaceConfig{
		Width:       uint32(max(src.Width(), 1)),
		Height:      uint32(max(src.Height(), 1)),
		Format:      r.backend.SurfaceFormat(),
		DepthFormat: r.depthFormat,
		PresentMode: r.presentMode,
	}
	if err := r.apply(); err != nil {
		r.backend.Release()
		return nil, common.NewError(common.KindFatalInit, op, err)
	}

	common.Logger().Info("renderer ready",
		"width", r.config.Width,
		"height", r.config.Height,
		"format", r.config.Format,
		"depth", r.config.DepthFormat,
	)
	return r, nil
}

// apply pushes the current config to the surface and rebuilds the depth texture.
func (r *renderer) apply() error {
	if err := r.backend.ConfigureSurface(r.config); err != nil {
		return errors.Wrap(err, "configure surface")
	}
	if err := r.backend.CreateDepthTexture(r.config.Width, r.config.Height, r.config.DepthFormat); err != nil {
		return errors.Wrap(err, "create depth texture")
	}
	return nil
}

func (r *renderer) Size() (uint32, uint32) {
	return r.config.Width, r.config.Height
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.config.Format
}

func (r *renderer) SurfaceConfig() SurfaceConfig {
	return r.config
}

func (r *renderer) Resize(width, height int) (bool, error) {
	const op = "renderer.Resize"
	if width <= 0 || height <= 0 {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.config
	r.config.Width = uint32(width)
	r.config.Height = uint32(height)
	if err := r.apply(); err != nil {
		r.config = prev
		if rerr := r.apply(); rerr != nil {
			common.Logger().Error("restoring surface after failed resize", "err", rerr)
		}
		return false, common.NewError(common.KindFatalRuntime, op, errors.Wrapf(err, "resize to %dx%d", width, height))
	}
	common.Logger().Debug("surface resized", "width", width, "height", height)
	return true, nil
}

func (r *renderer) Reconfigure() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.apply(); err != nil {
		return common.NewError(common.KindFatalRuntime, "renderer.Reconfigure", err)
	}
	common.Logger().Info("surface reconfigured", "width", r.config.Width, "height", r.config.Height)
	return nil
}

func (r *renderer) BuildPipeline(p pipeline.Pipeline) error {
	const op = "renderer.BuildPipeline"
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pipelineCache[p.Key()]; exists {
		return nil
	}
	if p.Shader() == nil {
		return common.Errorf(common.KindFatalInit, op, "pipeline %q has no shader", p.Key())
	}
	if err := p.Shader().ValidateVertexLayouts(p.VertexLayouts()); err != nil {
		return err
	}
	if err := r.backend.CreateRenderPipeline(p, r.config.Format); err != nil {
		return common.NewError(common.KindFatalInit, op, errors.Wrapf(err, "pipeline %q", p.Key()))
	}
	r.pipelineCache[p.Key()] = p
	common.Logger().Debug("pipeline built", "key", p.Key(), "groups", len(p.BindGroupLayoutDescriptors()))
	return nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	if err := r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount); err != nil {
		return common.NewError(common.KindFatalInit, "renderer.InitMeshBuffers", errors.Wrap(err, provider.Label()))
	}
	return nil
}

func (r *renderer) InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error {
	if err := r.backend.InitVertexBuffer(provider, data); err != nil {
		return common.NewError(common.KindFatalInit, "renderer.InitVertexBuffer", errors.Wrap(err, provider.Label()))
	}
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, group int) error {
	const op = "renderer.InitBindGroup"
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return common.Errorf(common.KindFatalInit, op, "unknown pipeline %q", pipelineKey)
	}
	descriptors := p.BindGroupLayoutDescriptors()
	if group < 0 || group >= len(descriptors) {
		return common.Errorf(common.KindFatalInit, op, "pipeline %q has no bind group %d", pipelineKey, group)
	}
	if err := r.backend.InitBindGroup(provider, p.BindGroupLayout(group), descriptors[group]); err != nil {
		return common.NewError(common.KindFatalInit, op, errors.Wrapf(err, "%s group %d", provider.Label(), group))
	}
	return nil
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error {
	const op = "renderer.InitTextureView"
	if staging.Width == 0 || staging.Height == 0 || len(staging.Pixels) < int(staging.Width*staging.Height*4) {
		return common.Errorf(common.KindAssetLoad, op, "%s: bad staging data %dx%d with %d bytes", provider.Label(), staging.Width, staging.Height, len(staging.Pixels))
	}
	if err := r.backend.InitTextureView(provider, binding, staging); err != nil {
		return common.NewError(common.KindFatalInit, op, errors.Wrap(err, provider.Label()))
	}
	return nil
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	if err := r.backend.InitSampler(provider, binding, staging); err != nil {
		return common.NewError(common.KindFatalInit, "renderer.InitSampler", errors.Wrap(err, provider.Label()))
	}
	return nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFrame {
		return common.Errorf(common.KindFatalRuntime, "renderer.BeginFrame", "previous frame not presented")
	}
	if err := r.backend.AcquireSurfaceTexture(); err != nil {
		return classifyAcquireError(err)
	}
	if err := r.backend.BeginRenderPass(r.clearColor); err != nil {
		return common.NewError(common.KindFatalRuntime, "renderer.BeginFrame", err)
	}
	r.inFrame = true
	return nil
}

func (r *renderer) Draw(cmd DrawCommand) error {
	const op = "renderer.Draw"
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return common.Errorf(common.KindFatalRuntime, op, "draw outside a frame")
	}
	p, ok := r.pipelineCache[cmd.PipelineKey]
	if !ok {
		return common.Errorf(common.KindFatalRuntime, op, "unknown pipeline %q", cmd.PipelineKey)
	}
	if cmd.Mesh == nil || !cmd.Mesh.Ready() {
		return common.Errorf(common.KindFatalRuntime, op, "pipeline %q: mesh has no buffers", cmd.PipelineKey)
	}
	if cmd.InstanceCount == 0 {
		return nil
	}
	r.backend.DrawCall(p, cmd)
	return nil
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return nil
	}
	if err := r.backend.EndRenderPass(); err != nil {
		return common.NewError(common.KindFatalRuntime, "renderer.EndFrame", err)
	}
	return nil
}

func (r *renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return
	}
	r.backend.Present()
	r.inFrame = false
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}

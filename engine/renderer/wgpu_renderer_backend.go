package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

type wgpuRendererBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	presentModes  []wgpu.PresentMode
	alphaMode     wgpu.CompositeAlphaMode

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	// Frame state, valid between AcquireSurfaceTexture and Present.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
}

var _ RendererBackend = &wgpuRendererBackend{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (*wgpuRendererBackend, error) {
	b := &wgpuRendererBackend{
		mu:       &sync.Mutex{},
		instance: wgpu.CreateInstance(nil),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)
	if b.surface == nil {
		b.Release()
		return nil, errors.New("create surface")
	}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, errors.Wrap(err, "request adapter")
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "oxy-viewer device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, errors.Wrap(err, "request device")
	}
	b.device = d
	b.queue = d.GetQueue()

	caps := b.surface.GetCapabilities(b.adapter)
	if len(caps.Formats) == 0 {
		b.Release()
		return nil, errors.New("surface reports no formats")
	}
	b.surfaceFormat = caps.Formats[0]
	for _, f := range caps.Formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			b.surfaceFormat = f
			break
		}
	}
	b.presentModes = caps.PresentModes
	if len(caps.AlphaModes) > 0 {
		b.alphaMode = caps.AlphaModes[0]
	}
	return b, nil
}

func (b *wgpuRendererBackend) SurfaceFormat() wgpu.TextureFormat {
	return b.surfaceFormat
}

// presentMode maps mode onto a supported wgpu mode. Fifo is always supported.
func (b *wgpuRendererBackend) presentMode(mode PresentMode) wgpu.PresentMode {
	if mode == PresentModeUncapped {
		for _, m := range b.presentModes {
			if m == wgpu.PresentModeImmediate {
				return m
			}
		}
	}
	return wgpu.PresentModeFifo
}

func (b *wgpuRendererBackend) ConfigureSurface(cfg SurfaceConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      cfg.Format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: b.presentMode(cfg.PresentMode),
		AlphaMode:   b.alphaMode,
	})
	return nil
}

func (b *wgpuRendererBackend) CreateDepthTexture(width, height uint32, format wgpu.TextureFormat) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}

	b.releaseDepth()
	b.depthTexture, b.depthView = tex, view
	return nil
}

func (b *wgpuRendererBackend) releaseDepth() {
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackend) CreateRenderPipeline(p pipeline.Pipeline, colorFormat wgpu.TextureFormat) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	module, err := b.device.CreateShaderModule(p.Shader().Module())
	if err != nil {
		return errors.Wrap(err, "shader module")
	}
	defer module.Release()

	descriptors := p.BindGroupLayoutDescriptors()
	layouts := make([]*wgpu.BindGroupLayout, 0, len(descriptors))
	releaseLayouts := func() {
		for _, l := range layouts {
			l.Release()
		}
	}
	for g := range descriptors {
		layout, err := b.device.CreateBindGroupLayout(&descriptors[g])
		if err != nil {
			releaseLayouts()
			return errors.Wrapf(err, "bind group layout %d", g)
		}
		layouts = append(layouts, layout)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Key(),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		releaseLayouts()
		return errors.Wrap(err, "pipeline layout")
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(pipeline.RenderPipelineDescriptor(p, pipelineLayout, module, colorFormat))
	if err != nil {
		releaseLayouts()
		return errors.Wrap(err, "render pipeline")
	}

	p.SetBindGroupLayouts(layouts)
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackend) createFilledBuffer(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	// Buffer sizes must be a multiple of 4 for queue writes.
	size := (uint64(len(data)) + 3) &^ 3
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (b *wgpuRendererBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) == 0 || len(indexData) == 0 {
		return errors.New("mesh has no vertices or indices")
	}
	vb, err := b.createFilledBuffer(provider.Label()+" vertices", wgpu.BufferUsageVertex, vertexData)
	if err != nil {
		return err
	}
	ib, err := b.createFilledBuffer(provider.Label()+" indices", wgpu.BufferUsageIndex, indexData)
	if err != nil {
		vb.Release()
		return err
	}
	provider.SetVertexBuffer(vb)
	provider.SetIndexBuffer(ib, indexCount)
	return nil
}

func (b *wgpuRendererBackend) InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(data) == 0 {
		return errors.New("vertex buffer is empty")
	}
	buf, err := b.createFilledBuffer(provider.Label()+" vertices", wgpu.BufferUsageVertex, data)
	if err != nil {
		return err
	}
	provider.SetVertexBuffer(buf)
	return nil
}

func (b *wgpuRendererBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if layout == nil {
		return errors.New("pipeline has no bind group layout; build it first")
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return errors.Errorf("texture binding %d has no view; call InitTextureView first", binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := provider.Sampler(binding)
			if s == nil {
				return errors.Errorf("sampler binding %d has no sampler; call InitSampler first", binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: s}
		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				usage := wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
				if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
					usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
				}
				var err error
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " uniform",
					Size:  max(entry.Buffer.MinBindingSize, 16),
					Usage: usage,
				})
				if err != nil {
					return err
				}
				provider.SetBuffer(binding, buf)
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " bind group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bg)
	return nil
}

func (b *wgpuRendererBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := wgpu.Extent3D{
		Width:              staging.Width,
		Height:             staging.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         provider.Label() + " texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	// The view keeps the texture alive.
	defer tex.Release()

	err = b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&size,
	)
	if err != nil {
		return err
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		return err
	}
	provider.SetTextureView(binding, view)
	return nil
}

func (b *wgpuRendererBackend) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeNearest),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   staging.LodMinClamp,
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
		Compare:       staging.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(binding, s)
	return nil
}

func (b *wgpuRendererBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if w.Provider == nil || len(w.Data) == 0 {
			continue
		}
		var buf *wgpu.Buffer
		if w.Binding == bind_group_provider.VertexBufferBinding {
			buf = w.Provider.VertexBuffer()
			if buf != nil && w.Offset+uint64(len(w.Data)) > buf.GetSize() {
				grown, err := b.createFilledBuffer(w.Provider.Label()+" vertices", wgpu.BufferUsageVertex, w.Data)
				if err != nil {
					common.Logger().Error("grow vertex buffer", "provider", w.Provider.Label(), "err", err)
					continue
				}
				w.Provider.SetVertexBuffer(grown)
				continue
			}
		} else {
			buf = w.Provider.Buffer(w.Binding)
		}
		if buf == nil {
			continue
		}
		if err := b.queue.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			common.Logger().Error("buffer write", "provider", w.Provider.Label(), "binding", w.Binding, "err", err)
		}
	}
}

func (b *wgpuRendererBackend) AcquireSurfaceTexture() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return errors.New("surface image already acquired")
	}
	tex, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	if surfaceTextureMissing(tex) {
		return errSurfaceTextureUnavailable
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	b.frameSurface, b.frameView = tex, view
	return nil
}

func (b *wgpuRendererBackend) BeginRenderPass(clear wgpu.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameView == nil {
		return errors.New("no surface image acquired")
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	desc := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       b.frameView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
	}
	if b.depthView != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}
	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(desc)
	return nil
}

func (b *wgpuRendererBackend) DrawCall(p pipeline.Pipeline, cmd DrawCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.SetPipeline(p.RenderPipeline())
	for i, bg := range cmd.BindGroups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	b.framePass.SetVertexBuffer(0, cmd.Mesh.VertexBuffer(), 0, wgpu.WholeSize)
	if cmd.Instances != nil && cmd.Instances.VertexBuffer() != nil {
		b.framePass.SetVertexBuffer(1, cmd.Instances.VertexBuffer(), 0, wgpu.WholeSize)
	}
	b.framePass.SetIndexBuffer(cmd.Mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(cmd.Mesh.IndexCount()), cmd.InstanceCount, 0, 0, 0)
}

func (b *wgpuRendererBackend) EndRenderPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return nil
	}
	defer func() {
		b.framePass.Release()
		b.framePass = nil
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}()

	if err := b.framePass.End(); err != nil {
		return errors.Wrap(err, "end render pass")
	}
	cmd, err := b.frameEncoder.Finish(nil)
	if err != nil {
		return errors.Wrap(err, "finish encoder")
	}
	defer cmd.Release()
	b.queue.Submit(cmd)
	return nil
}

func (b *wgpuRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.frameView.Release()
	b.frameView = nil
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	b.releaseDepth()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/instance"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	w, h int
}

func (f fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (f fakeSurface) Width() int                                 { return f.w }
func (f fakeSurface) Height() int                                { return f.h }

type depthTexture struct {
	width, height uint32
	format        wgpu.TextureFormat
}

// fakeBackend records calls instead of touching a GPU.
type fakeBackend struct {
	configured []SurfaceConfig
	depth      []depthTexture
	pipelines  []string
	writes     int
	draws      []DrawCommand
	presents   int
	released   bool

	acquireErrs   []error
	configErr     error
	configErrOnce error
}

func (b *fakeBackend) SurfaceFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatBGRA8UnormSrgb
}

func (b *fakeBackend) ConfigureSurface(cfg SurfaceConfig) error {
	if b.configErr != nil {
		return b.configErr
	}
	if err := b.configErrOnce; err != nil {
		b.configErrOnce = nil
		return err
	}
	b.configured = append(b.configured, cfg)
	return nil
}

func (b *fakeBackend) CreateDepthTexture(width, height uint32, format wgpu.TextureFormat) error {
	b.depth = append(b.depth, depthTexture{width, height, format})
	return nil
}

func (b *fakeBackend) CreateRenderPipeline(p pipeline.Pipeline, _ wgpu.TextureFormat) error {
	b.pipelines = append(b.pipelines, p.Key())
	return nil
}

func (b *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (b *fakeBackend) InitVertexBuffer(bind_group_provider.BindGroupProvider, []byte) error {
	return nil
}

func (b *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, *wgpu.BindGroupLayout, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (b *fakeBackend) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (b *fakeBackend) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (b *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.writes += len(writes)
}

func (b *fakeBackend) AcquireSurfaceTexture() error {
	if len(b.acquireErrs) == 0 {
		return nil
	}
	err := b.acquireErrs[0]
	b.acquireErrs = b.acquireErrs[1:]
	return err
}

func (b *fakeBackend) BeginRenderPass(wgpu.Color) error { return nil }

func (b *fakeBackend) DrawCall(_ pipeline.Pipeline, cmd DrawCommand) {
	b.draws = append(b.draws, cmd)
}

func (b *fakeBackend) EndRenderPass() error { return nil }
func (b *fakeBackend) Present()             { b.presents++ }
func (b *fakeBackend) Release()             { b.released = true }

// readyMesh reports itself drawable without real GPU buffers.
type readyMesh struct {
	bind_group_provider.BindGroupProvider
}

func (readyMesh) Ready() bool { return true }

func newTestRenderer(t *testing.T, w, h int, opts ...RendererBuilderOption) (Renderer, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{}
	r, err := NewRenderer(fakeSurface{w, h}, append([]RendererBuilderOption{WithBackend(b)}, opts...)...)
	require.NoError(t, err)
	return r, b
}

func modelPipeline(t *testing.T) pipeline.Pipeline {
	t.Helper()
	s, err := shader.NewShader("model", shader.ModelSource)
	require.NoError(t, err)
	return pipeline.NewPipeline("model",
		pipeline.WithShader(s),
		pipeline.WithVertexLayouts(model.VertexBufferLayout(), instance.VertexBufferLayout()),
	)
}

func TestNewRendererConfiguresSurfaceAndDepth(t *testing.T) {
	r, b := newTestRenderer(t, 1024, 768, WithPresentMode(PresentModeUncapped))

	w, h := r.Size()
	assert.Equal(t, uint32(1024), w)
	assert.Equal(t, uint32(768), h)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, r.SurfaceFormat())
	require.Len(t, b.configured, 1)
	assert.Equal(t, PresentModeUncapped, b.configured[0].PresentMode)
	require.Len(t, b.depth, 1)
	assert.Equal(t, depthTexture{1024, 768, wgpu.TextureFormatDepth32Float}, b.depth[0])
}

func TestNewRendererConfigFailure(t *testing.T) {
	b := &fakeBackend{configErr: errors.New("bad surface")}
	_, err := NewRenderer(fakeSurface{10, 10}, WithBackend(b))

	require.Error(t, err)
	kind, ok := common.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, common.KindFatalInit, kind)
	assert.True(t, b.released)
}

func TestResize(t *testing.T) {
	r, b := newTestRenderer(t, 640, 480)

	ok, err := r.Resize(0, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = r.Resize(800, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, b.depth, 1)

	ok, err = r.Resize(800, 600)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, b.depth, 2)
	assert.Equal(t, uint32(800), b.depth[1].width)
	assert.Equal(t, uint32(600), b.depth[1].height)

	w, h := r.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
	assert.Equal(t, uint32(800), b.configured[len(b.configured)-1].Width)
}

func TestResizeFailureKeepsPreviousSize(t *testing.T) {
	r, b := newTestRenderer(t, 640, 480)
	b.configErr = errors.New("surface rejected")

	ok, err := r.Resize(800, 600)
	assert.False(t, ok)
	require.Error(t, err)
	kind, classified := common.KindOf(err)
	require.True(t, classified)
	assert.Equal(t, common.KindFatalRuntime, kind)

	w, h := r.Size()
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)
	cfg := r.SurfaceConfig()
	last := b.configured[len(b.configured)-1]
	assert.Equal(t, last.Width, cfg.Width)
	assert.Equal(t, last.Height, cfg.Height)
	depth := b.depth[len(b.depth)-1]
	assert.Equal(t, cfg.Width, depth.width)
	assert.Equal(t, cfg.Height, depth.height)
}

func TestResizeFailureRestoresSurface(t *testing.T) {
	r, b := newTestRenderer(t, 640, 480)
	b.configErrOnce = errors.New("transient reject")

	ok, err := r.Resize(1024, 768)
	assert.False(t, ok)
	require.Error(t, err)

	require.Len(t, b.configured, 2)
	assert.Equal(t, uint32(640), b.configured[1].Width)
	assert.Equal(t, uint32(480), b.configured[1].Height)
	require.Len(t, b.depth, 2)
	assert.Equal(t, depthTexture{640, 480, wgpu.TextureFormatDepth32Float}, b.depth[1])
}

func TestReconfigureKeepsSize(t *testing.T) {
	r, b := newTestRenderer(t, 320, 200)
	require.NoError(t, r.Reconfigure())

	require.Len(t, b.depth, 2)
	assert.Equal(t, b.depth[0], b.depth[1])
	assert.Len(t, b.configured, 2)
}

func TestClassifyAcquireError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want common.Kind
	}{
		{"missing texture", errSurfaceTextureUnavailable, common.KindRecoverableSurface},
		{"wrapped missing texture", errors.Wrap(errSurfaceTextureUnavailable, "acquire"), common.KindRecoverableSurface},
		{"not configured", errors.New("wgpu.(*Surface).GetCurrentTexture(): Validation Error: Surface is not configured for presentation"), common.KindRecoverableSurface},
		{"already acquired", errors.New("wgpu.(*Surface).GetCurrentTexture(): Surface image is already acquired"), common.KindTransientSurface},
		{"out of memory", errors.New("wgpu.(*Surface).GetCurrentTexture(): Not enough memory left: Out of memory"), common.KindFatalRuntime},
		{"device lost", errors.New("wgpu.(*Surface).GetCurrentTexture(): Parent device is lost: device lost"), common.KindFatalRuntime},
		{"unknown", errors.New("something else"), common.KindTransientSurface},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyAcquireError(tc.err)
			assert.Equal(t, tc.want, got.Kind)
			assert.Equal(t, "renderer.BeginFrame", got.Op)
		})
	}
}

func TestSurfaceTextureMissing(t *testing.T) {
	assert.True(t, surfaceTextureMissing(nil))
	assert.True(t, surfaceTextureMissing(&wgpu.Texture{}))
}

func TestBeginFrameLostThenRecovers(t *testing.T) {
	r, b := newTestRenderer(t, 100, 100)
	b.acquireErrs = []error{errSurfaceTextureUnavailable}

	err := r.BeginFrame()
	kind, ok := common.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, common.KindRecoverableSurface, kind)
	assert.False(t, common.IsFatal(err))

	require.NoError(t, r.Reconfigure())
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.EndFrame())
	r.Present()
	assert.Equal(t, 1, b.presents)
}

func TestBeginFrameTwice(t *testing.T) {
	r, _ := newTestRenderer(t, 100, 100)
	require.NoError(t, r.BeginFrame())

	err := r.BeginFrame()
	assert.True(t, common.IsFatal(err))
}

func TestPresentWithoutFrame(t *testing.T) {
	r, b := newTestRenderer(t, 100, 100)
	require.NoError(t, r.EndFrame())
	r.Present()
	assert.Zero(t, b.presents)
}

func TestBuildPipelineCaches(t *testing.T) {
	r, b := newTestRenderer(t, 100, 100)
	p := modelPipeline(t)

	require.NoError(t, r.BuildPipeline(p))
	require.NoError(t, r.BuildPipeline(p))
	assert.Equal(t, []string{"model"}, b.pipelines)
	assert.Same(t, p, r.Pipeline("model"))
	assert.Nil(t, r.Pipeline("missing"))
}

func TestBuildPipelineErrors(t *testing.T) {
	r, _ := newTestRenderer(t, 100, 100)

	err := r.BuildPipeline(pipeline.NewPipeline("bare"))
	kind, _ := common.KindOf(err)
	assert.Equal(t, common.KindFatalInit, kind)

	s, err := shader.NewShader("model", shader.ModelSource)
	require.NoError(t, err)
	err = r.BuildPipeline(pipeline.NewPipeline("model", pipeline.WithShader(s)))
	kind, _ = common.KindOf(err)
	assert.Equal(t, common.KindFatalInit, kind)
	assert.Nil(t, r.Pipeline("model"))
}

func TestDrawValidation(t *testing.T) {
	r, b := newTestRenderer(t, 100, 100)
	require.NoError(t, r.BuildPipeline(modelPipeline(t)))
	mesh := readyMesh{bind_group_provider.NewBindGroupProvider("mesh")}

	assert.Error(t, r.Draw(DrawCommand{PipelineKey: "model", Mesh: mesh, InstanceCount: 1}))

	require.NoError(t, r.BeginFrame())
	assert.Error(t, r.Draw(DrawCommand{PipelineKey: "nope", Mesh: mesh, InstanceCount: 1}))
	assert.Error(t, r.Draw(DrawCommand{PipelineKey: "model", Mesh: bind_group_provider.NewBindGroupProvider("empty"), InstanceCount: 1}))
	assert.NoError(t, r.Draw(DrawCommand{PipelineKey: "model", Mesh: mesh, InstanceCount: 0}))
	assert.Empty(t, b.draws)

	require.NoError(t, r.Draw(DrawCommand{PipelineKey: "model", Mesh: mesh, InstanceCount: 9}))
	require.Len(t, b.draws, 1)
	assert.Equal(t, uint32(9), b.draws[0].InstanceCount)
}

func TestInitTextureViewRejectsBadStaging(t *testing.T) {
	r, _ := newTestRenderer(t, 100, 100)
	err := r.InitTextureView(bind_group_provider.NewBindGroupProvider("tex"), 0, common.TextureStagingData{Width: 2, Height: 2, Pixels: []byte{1, 2, 3}})

	kind, ok := common.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, common.KindAssetLoad, kind)
}

func TestInitBindGroupUnknownPipeline(t *testing.T) {
	r, _ := newTestRenderer(t, 100, 100)
	require.NoError(t, r.BuildPipeline(modelPipeline(t)))

	assert.Error(t, r.InitBindGroup(bind_group_provider.NewBindGroupProvider("cam"), "light", 0))
	assert.Error(t, r.InitBindGroup(bind_group_provider.NewBindGroupProvider("cam"), "model", 7))
	assert.NoError(t, r.InitBindGroup(bind_group_provider.NewBindGroupProvider("cam"), "model", 1))
}

func TestParsePresentMode(t *testing.T) {
	assert.Equal(t, PresentModeUncapped, ParsePresentMode("uncapped"))
	assert.Equal(t, PresentModeVSync, ParsePresentMode("vsync"))
	assert.Equal(t, PresentModeVSync, ParsePresentMode(""))
	assert.Equal(t, PresentModeUncapped, ParsePresentMode("Uncapped"))
}

func TestParseDepthFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, ParseDepthFormat("depth24plus"))
	assert.Equal(t, wgpu.TextureFormatDepth32Float, ParseDepthFormat("depth32float"))
	assert.Equal(t, wgpu.TextureFormatDepth32Float, ParseDepthFormat("bogus"))
}

func TestReleaseReleasesBackend(t *testing.T) {
	r, b := newTestRenderer(t, 100, 100)
	require.NoError(t, r.BuildPipeline(modelPipeline(t)))
	r.Release()
	assert.True(t, b.released)
	assert.Nil(t, r.Pipeline("model"))
}

package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/instance"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindGroupCall struct {
	label string
	key   string
	group int
}

type fakeUploader struct {
	pipelines  []pipeline.Pipeline
	bindGroups []bindGroupCall
	meshes     map[string]int
	vertexData map[string]int
	textures   map[string]common.TextureStagingData
	samplers   int

	pipelineErr error
	meshErr     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		meshes:     make(map[string]int),
		vertexData: make(map[string]int),
		textures:   make(map[string]common.TextureStagingData),
	}
}

func (f *fakeUploader) SurfaceConfig() renderer.SurfaceConfig {
	return renderer.SurfaceConfig{Width: 800, Height: 600, DepthFormat: wgpu.TextureFormatDepth32Float}
}

func (f *fakeUploader) BuildPipeline(p pipeline.Pipeline) error {
	if f.pipelineErr != nil {
		return f.pipelineErr
	}
	f.pipelines = append(f.pipelines, p)
	return nil
}

func (f *fakeUploader) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	if f.meshErr != nil {
		return f.meshErr
	}
	f.meshes[provider.Label()] = indexCount
	return nil
}

func (f *fakeUploader) InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error {
	f.vertexData[provider.Label()] = len(data)
	return nil
}

func (f *fakeUploader) InitBindGroup(provider bind_group_provider.BindGroupProvider, key string, group int) error {
	f.bindGroups = append(f.bindGroups, bindGroupCall{provider.Label(), key, group})
	return nil
}

func (f *fakeUploader) InitTextureView(provider bind_group_provider.BindGroupProvider, _ int, staging common.TextureStagingData) error {
	f.textures[provider.Label()] = staging
	return nil
}

func (f *fakeUploader) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	f.samplers++
	return nil
}

func twoMeshModel() *model.ImportedModel {
	cube := model.Cube(1)
	second := cube.Meshes[0]
	second.Name = "second"
	second.MaterialIndex = 1
	staging := common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}
	return &model.ImportedModel{
		Name:   "pair",
		Meshes: []model.ImportedMesh{cube.Meshes[0], second},
		Materials: []common.ImportedMaterial{
			{Name: "red", DiffuseColor: [4]float32{1, 0, 0, 1}},
			{Name: "wood", DiffuseColor: [4]float32{1, 1, 1, 1}, Staging: &staging},
		},
	}
}

func TestBuildDefaults(t *testing.T) {
	up := newFakeUploader()
	s, err := Build(up)
	require.NoError(t, err)

	require.Len(t, up.pipelines, 2)
	assert.Equal(t, ModelPipelineKey, up.pipelines[0].Key())
	assert.Equal(t, LightPipelineKey, up.pipelines[1].Key())
	assert.Len(t, up.pipelines[0].VertexLayouts(), 2)
	assert.Len(t, up.pipelines[1].VertexLayouts(), 1)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, up.pipelines[0].DepthFormat())

	assert.Equal(t, []bindGroupCall{
		{"camera", ModelPipelineKey, CameraGroup},
		{"light", ModelPipelineKey, LightGroup},
		{"material:cube", ModelPipelineKey, MaterialGroup},
	}, up.bindGroups)
	assert.Equal(t, 1, up.samplers)
	assert.Equal(t, common.WhiteTexel(), up.textures["material:cube"])

	assert.Equal(t, map[string]int{"mesh:cube/cube": 36}, up.meshes)
	assert.Equal(t, 100, up.vertexData["instances"])

	assert.Equal(t, "scene", s.Name())
	assert.Len(t, s.Model().Meshes(), 1)
	assert.Equal(t, 1, s.Instances().Len())
}

func TestDrawCommandOrder(t *testing.T) {
	cam := camera.NewCamera()
	lt := light.NewLight()
	set := instance.NewSet(instance.Grid(3, 2, 1)...)
	s, err := Build(newFakeUploader(), WithModel(twoMeshModel()), WithInstances(set), WithCamera(cam), WithLight(lt))
	require.NoError(t, err)

	cmds := s.DrawCommands()
	require.Len(t, cmds, 4)

	for _, c := range cmds[:2] {
		assert.Equal(t, LightPipelineKey, c.PipelineKey)
		assert.Equal(t, uint32(1), c.InstanceCount)
		assert.Nil(t, c.Instances)
		assert.Equal(t, []bind_group_provider.BindGroupProvider{cam.BindGroupProvider(), lt.BindGroupProvider()}, c.BindGroups)
	}

	meshes := s.Model().Meshes()
	mats := s.Model().Materials()
	for i, c := range cmds[2:] {
		assert.Equal(t, ModelPipelineKey, c.PipelineKey)
		assert.Equal(t, meshes[i].Provider, c.Mesh)
		assert.Equal(t, set.Provider(), c.Instances)
		assert.Equal(t, uint32(9), c.InstanceCount)
		require.Len(t, c.BindGroups, 3)
		assert.Equal(t, mats[i].BindGroupProvider(), c.BindGroups[MaterialGroup])
		assert.Equal(t, cam.BindGroupProvider(), c.BindGroups[CameraGroup])
		assert.Equal(t, lt.BindGroupProvider(), c.BindGroups[LightGroup])
	}
}

func TestBuildUploadsDecodedTexture(t *testing.T) {
	up := newFakeUploader()
	_, err := Build(up, WithModel(twoMeshModel()))
	require.NoError(t, err)

	assert.Equal(t, uint32(2), up.textures["material:wood"].Width)
	assert.Equal(t, []byte{255, 0, 0, 255}, up.textures["material:red"].Pixels)
	assert.Equal(t, 2, up.samplers)
}

func TestWithoutLightProxy(t *testing.T) {
	s, err := Build(newFakeUploader(), WithLightProxy(false))
	require.NoError(t, err)

	cmds := s.DrawCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, ModelPipelineKey, cmds[0].PipelineKey)
}

func TestEmptyInstanceSet(t *testing.T) {
	up := newFakeUploader()
	s, err := Build(up, WithInstances(instance.NewSet()))
	require.NoError(t, err)

	assert.NotContains(t, up.vertexData, "instances")
	cmds := s.DrawCommands()
	assert.Equal(t, uint32(0), cmds[len(cmds)-1].InstanceCount)
}

func TestBuildErrors(t *testing.T) {
	up := newFakeUploader()
	up.pipelineErr = common.Errorf(common.KindFatalInit, "test", "no device")
	_, err := Build(up)
	require.Error(t, err)
	assert.True(t, common.IsFatal(err))

	up = newFakeUploader()
	up.meshErr = errors.New("out of memory")
	_, err = Build(up)
	assert.Error(t, err)

	empty := &model.ImportedModel{Name: "empty", Meshes: []model.ImportedMesh{{Name: "nothing"}}}
	_, err = Build(newFakeUploader(), WithModel(empty))
	kind, ok := common.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, common.KindAssetLoad, kind)
}

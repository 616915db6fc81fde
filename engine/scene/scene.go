// Package scene uploads a model, its materials, an instance set, the camera and the light to
// the GPU and produces the ordered draw commands for a frame.
package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/instance"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/pkg/errors"
)

// Pipeline keys registered by Build.
const (
	ModelPipelineKey = "model"
	LightPipelineKey = "light"
)

// Bind group indices in the model pipeline. The light pipeline uses camera at 0 and light at 1.
const (
	MaterialGroup = 0
	CameraGroup   = 1
	LightGroup    = 2
)

// Uploader is the part of renderer.Renderer the scene needs to create its GPU resources.
type Uploader interface {
	SurfaceConfig() renderer.SurfaceConfig
	BuildPipeline(p pipeline.Pipeline) error
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, group int) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error
}

type scene struct {
	name string

	imported  *model.ImportedModel
	model     model.Model
	instances *instance.Set
	camera    camera.Camera
	light     light.Light

	drawLightProxy bool
	pipelineOpts   []pipeline.PipelineBuilderOption
}

// Scene is everything drawn in a frame. It is built once at startup; afterwards only the
// camera, light and instance buffers change.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Model returns the uploaded model.
	Model() model.Model

	// Instances returns the instance set drawn with the model.
	Instances() *instance.Set

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Light returns the scene's light.
	Light() light.Light

	// DrawCommands returns the frame's draws in order: the light proxy first, then every
	// sub-mesh of the model instanced over the instance set.
	//
	// Returns:
	//   - []renderer.DrawCommand: the draws
	DrawCommands() []renderer.DrawCommand

	// Release frees the scene's GPU resources. Pipelines belong to the renderer.
	Release()
}

var _ Scene = &scene{}

// Build uploads the scene. Without options it is one unit cube at the origin seen from
// the default camera, lit by the default light.
//
// Parameters:
//   - r: the renderer the resources are created on
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the uploaded scene
//   - error: a KindFatalInit error if a shader, pipeline or GPU resource cannot be created,
//     or a KindAssetLoad error for unusable mesh or texture data
func Build(r Uploader, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		name:           "scene",
		drawLightProxy: true,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.imported == nil {
		s.imported = model.Cube(1)
	}
	if s.instances == nil {
		s.instances = instance.NewSet(instance.Single()...)
	}
	if s.camera == nil {
		s.camera = camera.NewCamera()
	}
	if s.light == nil {
		s.light = light.NewLight()
	}

	if err := s.buildPipelines(r); err != nil {
		return nil, err
	}
	if err := s.upload(r); err != nil {
		s.Release()
		return nil, err
	}

	common.Logger().Info("scene built",
		"name", s.name,
		"model", s.imported.Name,
		"meshes", len(s.model.Meshes()),
		"materials", len(s.model.Materials()),
		"instances", s.instances.Len(),
	)
	return s, nil
}

func (s *scene) buildPipelines(r Uploader) error {
	const op = "scene.Build"
	depth := r.SurfaceConfig().DepthFormat

	modelShader, err := shader.NewShader(ModelPipelineKey, shader.ModelSource)
	if err != nil {
		return err
	}
	lightShader, err := shader.NewShader(LightPipelineKey, shader.LightSource)
	if err != nil {
		return err
	}

	modelOpts := append([]pipeline.PipelineBuilderOption{
		pipeline.WithShader(modelShader),
		pipeline.WithVertexLayouts(model.VertexBufferLayout(), instance.VertexBufferLayout()),
		pipeline.WithDepthFormat(depth),
	}, s.pipelineOpts...)
	pipelines := []pipeline.Pipeline{
		pipeline.NewPipeline(ModelPipelineKey, modelOpts...),
		pipeline.NewPipeline(LightPipelineKey,
			pipeline.WithShader(lightShader),
			pipeline.WithVertexLayouts(model.VertexBufferLayout()),
			pipeline.WithDepthFormat(depth),
		),
	}
	for _, p := range pipelines {
		if err := r.BuildPipeline(p); err != nil {
			return errors.Wrapf(err, "%s: pipeline %q", op, p.Key())
		}
	}
	return nil
}

// upload creates every buffer, texture and bind group. Uniform bind groups are created
// against the model pipeline's layouts; the light pipeline declares identical layouts.
func (s *scene) upload(r Uploader) error {
	if err := r.InitBindGroup(s.camera.BindGroupProvider(), ModelPipelineKey, CameraGroup); err != nil {
		return err
	}
	if err := r.InitBindGroup(s.light.BindGroupProvider(), ModelPipelineKey, LightGroup); err != nil {
		return err
	}

	imported := s.imported.Materials
	if len(imported) == 0 {
		imported = []common.ImportedMaterial{{Name: "default", DiffuseColor: [4]float32{1, 1, 1, 1}}}
	}
	mats := make([]material.Material, 0, len(imported))
	for _, imp := range imported {
		mat := material.FromImported(imp)
		mats = append(mats, mat)
		if err := uploadMaterial(r, mat); err != nil {
			releaseMaterials(mats)
			return err
		}
	}

	meshes := make([]model.Mesh, 0, len(s.imported.Meshes))
	for i, im := range s.imported.Meshes {
		if len(im.Vertices) == 0 || len(im.Indices) == 0 {
			common.Logger().Warn("skipping empty mesh", "model", s.imported.Name, "mesh", im.Name)
			continue
		}
		provider := bind_group_provider.NewBindGroupProvider("mesh:" + s.imported.Name + "/" + im.Name)
		meshes = append(meshes, model.Mesh{Name: im.Name, Provider: provider, MaterialIndex: im.MaterialIndex})
		if err := r.InitMeshBuffers(provider, model.MarshalVertices(im.Vertices), model.MarshalIndices(im.Indices), len(im.Indices)); err != nil {
			model.NewModel(model.WithMeshes(meshes...), model.WithMaterials(mats...)).Release()
			return errors.Wrapf(err, "mesh %d", i)
		}
	}
	s.model = model.NewModel(
		model.WithName(s.imported.Name),
		model.WithMeshes(meshes...),
		model.WithMaterials(mats...),
	)
	if len(meshes) == 0 {
		return common.Errorf(common.KindAssetLoad, "scene.Build", "model %q has no drawable meshes", s.imported.Name)
	}

	if s.instances.Len() > 0 {
		s.instances.Repack()
		if err := r.InitVertexBuffer(s.instances.Provider(), s.instances.Marshal()); err != nil {
			return err
		}
	}
	return nil
}

// uploadMaterial creates the diffuse texture, sampler and bind group of mat.
func uploadMaterial(r Uploader, mat material.Material) error {
	provider := mat.BindGroupProvider()
	if err := r.InitTextureView(provider, material.DiffuseTextureBinding, mat.Texture()); err != nil {
		return err
	}
	if err := r.InitSampler(provider, material.DiffuseSamplerBinding, mat.Sampler()); err != nil {
		return err
	}
	return r.InitBindGroup(provider, ModelPipelineKey, MaterialGroup)
}

func releaseMaterials(mats []material.Material) {
	for _, m := range mats {
		m.BindGroupProvider().Release()
	}
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Model() model.Model {
	return s.model
}

func (s *scene) Instances() *instance.Set {
	return s.instances
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Light() light.Light {
	return s.light
}

func (s *scene) DrawCommands() []renderer.DrawCommand {
	if s.model == nil {
		return nil
	}
	meshes := s.model.Meshes()
	cmds := make([]renderer.DrawCommand, 0, 2*len(meshes))

	if s.drawLightProxy {
		for _, mesh := range meshes {
			cmds = append(cmds, renderer.DrawCommand{
				PipelineKey:   LightPipelineKey,
				Mesh:          mesh.Provider,
				InstanceCount: 1,
				BindGroups: []bind_group_provider.BindGroupProvider{
					s.camera.BindGroupProvider(),
					s.light.BindGroupProvider(),
				},
			})
		}
	}

	for _, mesh := range meshes {
		mat := s.model.Material(mesh)
		if mat == nil {
			continue
		}
		cmds = append(cmds, renderer.DrawCommand{
			PipelineKey:   ModelPipelineKey,
			Mesh:          mesh.Provider,
			Instances:     s.instances.Provider(),
			InstanceCount: uint32(s.instances.Len()),
			BindGroups: []bind_group_provider.BindGroupProvider{
				mat.BindGroupProvider(),
				s.camera.BindGroupProvider(),
				s.light.BindGroupProvider(),
			},
		})
	}
	return cmds
}

func (s *scene) Release() {
	if s.model != nil {
		s.model.Release()
	}
	s.instances.Provider().Release()
	s.camera.BindGroupProvider().Release()
	s.light.BindGroupProvider().Release()
}

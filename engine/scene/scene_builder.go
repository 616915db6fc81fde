package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/instance"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier.
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithModel sets the mesh drawn for every instance. Materials should already have their
// textures decoded; undecoded ones are drawn in their diffuse color.
//
// Parameters:
//   - m: the imported model
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithModel(m *model.ImportedModel) SceneBuilderOption {
	return func(s *scene) {
		s.imported = m
	}
}

// WithInstances sets the instance set the model is drawn over.
//
// Parameters:
//   - set: the instances
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInstances(set *instance.Set) SceneBuilderOption {
	return func(s *scene) {
		s.instances = set
	}
}

// WithCamera sets the scene's camera.
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = cam
	}
}

// WithLight sets the scene's light.
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.light = l
	}
}

// WithLightProxy sets whether the light's position is drawn as a small unlit copy of the
// model. The default is true.
func WithLightProxy(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.drawLightProxy = enabled
	}
}

// WithModelPipelineOptions appends options to the model pipeline, such as a blend state.
//
// Parameters:
//   - opts: pipeline builder options applied after the defaults
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithModelPipelineOptions(opts ...pipeline.PipelineBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.pipelineOpts = append(s.pipelineOpts, opts...)
	}
}

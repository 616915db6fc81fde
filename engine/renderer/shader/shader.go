// Package shader loads WGSL sources and reflects the metadata the pipeline needs from them:
// entry points, bind group layouts and the vertex attributes the vertex stage consumes.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ModelSource draws textured, lit, instanced meshes. Groups: 0 material, 1 camera, 2 light.
//
//go:embed assets/model.wgsl
var ModelSource string

// LightSource draws the light marker. Groups: 0 camera, 1 light.
//
//go:embed assets/light.wgsl
var LightSource string

type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	bindGroups    []wgpu.BindGroupLayoutDescriptor
	bindingNames  map[[2]int]string
	vertexInputs  []VertexInput
	module        *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL module holding one vertex and one fragment entry point.
type Shader interface {
	// Key returns the unique identifier used for pipeline caching and labels.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source returns the WGSL source.
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptors returns one descriptor per bind group, indexed by group.
	// Every entry is visible to both stages and buffer entries carry the reflected
	// MinBindingSize.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: descriptors in group order
	BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptor returns the descriptor for one group.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor
	//   - bool: false when the shader declares no such group
	BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool)

	// BindingName returns the WGSL variable declared at group and binding, or "".
	BindingName(group, binding int) string

	// VertexInputs returns the attributes consumed by the vertex entry point, sorted by location.
	VertexInputs() []VertexInput

	// ValidateVertexLayouts checks that every vertex input is supplied by exactly one of the
	// layouts with a matching format.
	//
	// Parameters:
	//   - layouts: the vertex buffer layouts in slot order
	//
	// Returns:
	//   - error: a KindFatalInit error naming the first missing or mismatched location
	ValidateVertexLayouts(layouts []wgpu.VertexBufferLayout) error

	// Module returns the descriptor for device.CreateShaderModule.
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses source and reflects its metadata.
//
// Parameters:
//   - key: the unique shader identifier
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: a KindFatalInit error when an entry point is missing or bind groups are not
//     numbered contiguously from zero
func NewShader(key, source string) (Shader, error) {
	const op = "shader.NewShader"
	clean := stripComments(source)

	s := &shader{key: key, source: source}

	vm := vertexEntry.FindStringSubmatch(clean)
	if vm == nil {
		return nil, common.Errorf(common.KindFatalInit, op, "%s: no @vertex entry point", key)
	}
	fm := fragmentEntry.FindStringSubmatch(clean)
	if fm == nil {
		return nil, common.Errorf(common.KindFatalInit, op, "%s: no @fragment entry point", key)
	}
	s.vertexEntry, s.fragmentEntry = vm[1], fm[1]

	structs := parseStructs(clean)
	s.vertexInputs = reflectVertexInputs(vm[2], structs)
	for _, in := range s.vertexInputs {
		if in.Format == wgpu.VertexFormatUndefined {
			return nil, common.Errorf(common.KindFatalInit, op, "%s: unsupported type for vertex input %q", key, in.Name)
		}
	}

	groups, names := reflectBindGroups(clean, structs)
	s.bindingNames = names
	s.bindGroups = make([]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g := range s.bindGroups {
		entries, ok := groups[g]
		if !ok {
			return nil, common.Errorf(common.KindFatalInit, op, "%s: bind groups must be numbered from 0 without gaps, group %d is missing", key, g)
		}
		s.bindGroups[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s:group%d", key, g),
			Entries: entries,
		}
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label:          key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	return s.bindGroups
}

func (s *shader) BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool) {
	if group < 0 || group >= len(s.bindGroups) {
		return wgpu.BindGroupLayoutDescriptor{}, false
	}
	return s.bindGroups[group], true
}

func (s *shader) BindingName(group, binding int) string {
	return s.bindingNames[[2]int{group, binding}]
}

func (s *shader) VertexInputs() []VertexInput {
	return s.vertexInputs
}

func (s *shader) ValidateVertexLayouts(layouts []wgpu.VertexBufferLayout) error {
	const op = "shader.ValidateVertexLayouts"
	supplied := make(map[uint32]wgpu.VertexFormat)
	for slot, layout := range layouts {
		for _, attr := range layout.Attributes {
			if _, dup := supplied[attr.ShaderLocation]; dup {
				return common.Errorf(common.KindFatalInit, op, "%s: location %d supplied twice (slot %d)", s.key, attr.ShaderLocation, slot)
			}
			supplied[attr.ShaderLocation] = attr.Format
		}
	}
	for _, in := range s.vertexInputs {
		format, ok := supplied[in.Location]
		if !ok {
			return common.Errorf(common.KindFatalInit, op, "%s: no vertex buffer supplies location %d (%s)", s.key, in.Location, in.Name)
		}
		if format != in.Format {
			return common.Errorf(common.KindFatalInit, op, "%s: location %d is %v in the buffer but %v in the shader", s.key, in.Location, format, in.Format)
		}
	}
	return nil
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

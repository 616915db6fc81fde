package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout is the size and alignment of a host-shareable WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// structField is one member of a WGSL struct. location is -1 when the member has none.
type structField struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type structDecl struct {
	name   string
	fields []structField
}

// VertexInput is one @location attribute consumed by the vertex entry point.
type VertexInput struct {
	Name     string
	Location uint32
	Format   wgpu.VertexFormat
}

var (
	structRegex    = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex  = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex   = regexp.MustCompile(`@builtin\(\w+\)`)
	memberRegex    = regexp.MustCompile(`^(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)$`)
	vertexEntry    = regexp.MustCompile(`(?s)@vertex\s+fn\s+(\w+)\s*\(([^)]*)\)`)
	fragmentEntry  = regexp.MustCompile(`(?s)@fragment\s+fn\s+(\w+)`)
	paramTypeRegex = regexp.MustCompile(`\w+\s*:\s*(\w+)`)
	resourceRegex  = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// vertexFormats maps WGSL attribute types to vertex formats.
var vertexFormats = map[string]wgpu.VertexFormat{
	"f32":       wgpu.VertexFormatFloat32,
	"vec2<f32>": wgpu.VertexFormatFloat32x2,
	"vec2f":     wgpu.VertexFormatFloat32x2,
	"vec3<f32>": wgpu.VertexFormatFloat32x3,
	"vec3f":     wgpu.VertexFormatFloat32x3,
	"vec4<f32>": wgpu.VertexFormatFloat32x4,
	"vec4f":     wgpu.VertexFormatFloat32x4,
	"u32":       wgpu.VertexFormatUint32,
	"vec2<u32>": wgpu.VertexFormatUint32x2,
	"vec4<u32>": wgpu.VertexFormatUint32x4,
	"i32":       wgpu.VertexFormatSint32,
	"vec2<i32>": wgpu.VertexFormatSint32x2,
	"vec4<i32>": wgpu.VertexFormatSint32x4,
}

// primitiveLayouts follows the WGSL alignment and size table.
var primitiveLayouts = map[string]typeLayout{
	"f32":         {4, 4},
	"i32":         {4, 4},
	"u32":         {4, 4},
	"vec2<f32>":   {8, 8},
	"vec2f":       {8, 8},
	"vec3<f32>":   {12, 16},
	"vec3f":       {12, 16},
	"vec4<f32>":   {16, 16},
	"vec4f":       {16, 16},
	"vec4<u32>":   {16, 16},
	"vec4<i32>":   {16, 16},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

var sampledTextureDims = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_depth_2d": wgpu.TextureViewDimension2D,
}

func alignUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// stripComments drops // and (nested) /* */ comments.
func stripComments(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	depth := 0
	for i := 0; i < len(src); i++ {
		if i+1 < len(src) {
			switch {
			case src[i] == '/' && src[i+1] == '*':
				depth++
				i++
				continue
			case src[i] == '*' && src[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && src[i] == '/' && src[i+1] == '/':
				for i < len(src) && src[i] != '\n' {
					i++
				}
				if i < len(src) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(src[i])
		}
	}
	return sb.String()
}

// splitMembers splits a struct body at commas outside angle brackets.
func splitMembers(body string) []string {
	var out []string
	depth, start := 0, 0
	for i, c := range body {
		switch c {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				out = append(out, body[start:i])
				start = i + 1
			}
		}
	}
	return append(out, body[start:])
}

func parseStructs(src string) map[string]structDecl {
	decls := make(map[string]structDecl)
	for _, m := range structRegex.FindAllStringSubmatch(src, -1) {
		decl := structDecl{name: m[1]}
		for _, member := range splitMembers(m[2]) {
			member = strings.TrimSpace(member)
			mm := memberRegex.FindStringSubmatch(member)
			if mm == nil {
				continue
			}
			f := structField{
				name:     mm[1],
				typeName: strings.TrimSpace(mm[2]),
				location: -1,
				builtin:  builtinRegex.MatchString(member),
			}
			if loc := locationRegex.FindStringSubmatch(member); loc != nil {
				f.location, _ = strconv.Atoi(loc[1])
			}
			decl.fields = append(decl.fields, f)
		}
		decls[decl.name] = decl
	}
	return decls
}

// layoutOf resolves the host-shareable layout of typeName, recursing into structs.
func layoutOf(typeName string, structs map[string]structDecl, depth int) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	decl, ok := structs[typeName]
	if !ok || depth > 8 {
		return typeLayout{}, false
	}
	var offset, align uint64 = 0, 1
	for _, f := range decl.fields {
		fl, ok := layoutOf(f.typeName, structs, depth+1)
		if !ok {
			return typeLayout{}, false
		}
		offset = alignUp(fl.align, offset) + fl.size
		align = max(align, fl.align)
	}
	return typeLayout{size: alignUp(align, offset), align: align}, true
}

// bindingEntry classifies one resource declaration into a layout entry.
func bindingEntry(binding uint32, addressSpace, typeName string, minSize uint64) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		entry.Buffer.MinBindingSize = minSize
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
		entry.Buffer.MinBindingSize = minSize
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(typeName, "<")
		entry.Texture.ViewDimension = sampledTextureDims[base]
		switch {
		case strings.HasPrefix(base, "texture_depth"):
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		case strings.HasPrefix(param, "u32"):
			entry.Texture.SampleType = wgpu.TextureSampleTypeUint
		case strings.HasPrefix(param, "i32"):
			entry.Texture.SampleType = wgpu.TextureSampleTypeSint
		default:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		}
	}
	return entry
}

// reflectBindGroups returns entries per group, sorted by binding, and the variable names.
func reflectBindGroups(src string, structs map[string]structDecl) (map[int][]wgpu.BindGroupLayoutEntry, map[[2]int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[[2]int]string)
	for _, m := range resourceRegex.FindAllStringSubmatch(src, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		typeName := strings.TrimSpace(m[5])
		var size uint64
		if l, ok := layoutOf(typeName, structs, 0); ok {
			size = l.size
		}
		groups[group] = append(groups[group], bindingEntry(uint32(binding), strings.TrimSpace(m[3]), typeName, size))
		names[[2]int{group, binding}] = m[4]
	}
	for _, entries := range groups {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
	}
	return groups, names
}

// reflectVertexInputs collects the @location members of the vertex entry point's parameter
// structs, sorted by location.
func reflectVertexInputs(params string, structs map[string]structDecl) []VertexInput {
	var inputs []VertexInput
	for _, pm := range paramTypeRegex.FindAllStringSubmatch(params, -1) {
		decl, ok := structs[pm[1]]
		if !ok {
			continue
		}
		for _, f := range decl.fields {
			if f.builtin || f.location < 0 {
				continue
			}
			inputs = append(inputs, VertexInput{
				Name:     f.name,
				Location: uint32(f.location),
				Format:   vertexFormats[f.typeName],
			})
		}
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Location < inputs[j].Location })
	return inputs
}

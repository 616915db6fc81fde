package loader

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// objLoaderBackend imports Wavefront OBJ files through the g3n decoder.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

func newOBJLoaderBackend() loaderBackend {
	return &objLoaderBackend{}
}

func (b *objLoaderBackend) Load(path string) (*model.ImportedModel, error) {
	const op = "loader.LoadOBJ"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewError(common.KindAssetLoad, op, errors.Wrapf(err, "read %s", path))
	}

	dir := filepath.Dir(path)
	var mtl io.Reader
	if lib := materialLibrary(data); lib != "" {
		f, err := os.Open(filepath.Join(dir, lib))
		if err != nil {
			common.Logger().Warn("material library not found, using defaults", "model", path, "mtllib", lib)
		} else {
			defer f.Close()
			mtl = f
		}
	}

	m, err := b.LoadReader(bytes.NewReader(data), mtl, dir)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

func (b *objLoaderBackend) LoadReader(r, materials io.Reader, baseDir string) (*model.ImportedModel, error) {
	const op = "loader.LoadOBJReader"
	if materials == nil {
		materials = strings.NewReader("")
	}
	dec, err := obj.DecodeReader(r, materials)
	if err != nil {
		return nil, common.NewError(common.KindAssetLoad, op, errors.Wrap(err, "decode obj"))
	}
	m, err := buildModel(dec, baseDir)
	if err != nil {
		return nil, common.NewError(common.KindAssetLoad, op, err)
	}
	return m, nil
}

// materialLibrary returns the first mtllib file name in OBJ text, or "".
func materialLibrary(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "mtllib"); ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// cornerKey identifies a unique output vertex. tri is -1 when the corner has a file normal,
// otherwise the triangle index, so flat-shaded corners are never shared across faces.
type cornerKey struct {
	v, uv, n, tri int
}

// meshBuilder accumulates one output mesh.
type meshBuilder struct {
	mesh   model.ImportedMesh
	unique map[cornerKey]uint32
}

// buildModel triangulates every face as a fan, de-duplicates vertex/uv/normal triples and
// splits the result into one mesh per object and material.
func buildModel(dec *obj.Decoder, baseDir string) (*model.ImportedModel, error) {
	m := &model.ImportedModel{Name: "obj"}
	materialIndex := make(map[string]int)
	resolveMaterial := func(name string) int {
		if idx, ok := materialIndex[name]; ok {
			return idx
		}
		idx := len(m.Materials)
		materialIndex[name] = idx
		m.Materials = append(m.Materials, importMaterial(name, dec.Materials[name], baseDir))
		return idx
	}

	nv := len(dec.Vertices) / 3
	triangle := 0
	for _, o := range dec.Objects {
		if m.Name == "obj" && o.Name != "" {
			m.Name = o.Name
		}
		builders := make(map[int]*meshBuilder)
		var order []int

		for fi, face := range o.Faces {
			if len(face.Vertices) < 3 {
				return nil, errors.Errorf("object %q face %d has %d vertices", o.Name, fi, len(face.Vertices))
			}
			for _, vi := range face.Vertices {
				if vi < 0 || vi >= nv {
					return nil, errors.Errorf("object %q face %d references vertex %d of %d", o.Name, fi, vi, nv)
				}
			}

			matIdx := resolveMaterial(face.Material)
			mb, ok := builders[matIdx]
			if !ok {
				mb = &meshBuilder{
					mesh:   model.ImportedMesh{Name: o.Name, MaterialIndex: matIdx},
					unique: make(map[cornerKey]uint32),
				}
				builders[matIdx] = mb
				order = append(order, matIdx)
			}

			for i := 2; i < len(face.Vertices); i++ {
				corners := [3]int{0, i - 1, i}
				flat := flatNormal(dec, face, corners)
				for _, c := range corners {
					mb.add(dec, face, c, triangle, flat)
				}
				triangle++
			}
		}

		for _, matIdx := range order {
			mb := builders[matIdx]
			if len(order) > 1 {
				mb.mesh.Name = o.Name + "/" + m.Materials[matIdx].Name
			}
			mb.mesh.ComputeBounds()
			m.Meshes = append(m.Meshes, mb.mesh)
		}
	}

	if len(m.Meshes) == 0 {
		return nil, errors.New("obj has no faces")
	}
	return m, nil
}

func (mb *meshBuilder) add(dec *obj.Decoder, face obj.Face, corner, triangle int, flat mgl32.Vec3) {
	vi := face.Vertices[corner]
	uvi := attrIndex(face.Uvs, corner, len(dec.Uvs)/2)
	ni := attrIndex(face.Normals, corner, len(dec.Normals)/3)

	key := cornerKey{v: vi, uv: uvi, n: ni, tri: -1}
	if ni < 0 {
		key.tri = triangle
	}
	if idx, ok := mb.unique[key]; ok {
		mb.mesh.Indices = append(mb.mesh.Indices, idx)
		return
	}

	vert := model.GPUModelVertex{
		Position: [3]float32{dec.Vertices[vi*3], dec.Vertices[vi*3+1], dec.Vertices[vi*3+2]},
		Normal:   flat,
	}
	if uvi >= 0 {
		vert.TexCoord = [2]float32{dec.Uvs[uvi*2], 1.0 - dec.Uvs[uvi*2+1]}
	}
	if ni >= 0 {
		vert.Normal = [3]float32{dec.Normals[ni*3], dec.Normals[ni*3+1], dec.Normals[ni*3+2]}
	}

	idx := uint32(len(mb.mesh.Vertices))
	mb.mesh.Vertices = append(mb.mesh.Vertices, vert)
	mb.unique[key] = idx
	mb.mesh.Indices = append(mb.mesh.Indices, idx)
}

// attrIndex returns the attribute index of a face corner, or -1 when the face has none.
func attrIndex(indices []int, corner, count int) int {
	if corner >= len(indices) {
		return -1
	}
	idx := indices[corner]
	if idx < 0 || idx >= count {
		return -1
	}
	return idx
}

// flatNormal is the unit normal of a counter-clockwise triangle, or +Y when degenerate.
func flatNormal(dec *obj.Decoder, face obj.Face, corners [3]int) mgl32.Vec3 {
	var p [3]mgl32.Vec3
	for i, c := range corners {
		vi := face.Vertices[c]
		p[i] = mgl32.Vec3{dec.Vertices[vi*3], dec.Vertices[vi*3+1], dec.Vertices[vi*3+2]}
	}
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.Len() < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

// importMaterial converts a decoded MTL material. A nil material (no library, or a usemtl
// naming an unknown material) becomes opaque white.
func importMaterial(name string, mat *obj.Material, baseDir string) common.ImportedMaterial {
	if name == "" {
		name = "default"
	}
	imp := common.ImportedMaterial{Name: name, DiffuseColor: [4]float32{1, 1, 1, 1}}
	if mat == nil {
		return imp
	}
	imp.DiffuseColor = [4]float32{mat.Diffuse.R, mat.Diffuse.G, mat.Diffuse.B, 1}
	if mat.MapKd != "" {
		p := mat.MapKd
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		imp.DiffuseTexture = &common.ImportedTexture{Name: mat.MapKd, Path: p}
	}
	return imp
}

package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// ImportedModel is the CPU-side result of loading a model file or building a procedural mesh.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Meshes are the sub-meshes in draw order.
	Meshes []ImportedMesh

	// Materials are indexed by ImportedMesh.MaterialIndex.
	Materials []common.ImportedMaterial
}

// ImportedMesh is a single indexed triangle list sharing one material.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are de-duplicated per unique position/uv/normal triple.
	Vertices []GPUModelVertex

	// Indices index Vertices, three per triangle, counter-clockwise front faces.
	Indices []uint32

	// MaterialIndex references ImportedModel.Materials, or -1 for none.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// ComputeBounds recomputes BoundingMin and BoundingMax from the vertices.
func (m *ImportedMesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.BoundingMin, m.BoundingMax = [3]float32{}, [3]float32{}
		return
	}
	m.BoundingMin = m.Vertices[0].Position
	m.BoundingMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			m.BoundingMin[i] = min(m.BoundingMin[i], v.Position[i])
			m.BoundingMax[i] = max(m.BoundingMax[i], v.Position[i])
		}
	}
}

package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexSizeAndLayout(t *testing.T) {
	var v GPUModelVertex
	assert.Equal(t, 32, v.Size())

	layout := VertexBufferLayout()
	assert.Equal(t, uint64(32), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 3)
	for i, attr := range layout.Attributes {
		assert.Equal(t, uint32(i), attr.ShaderLocation)
	}
	assert.Equal(t, uint64(20), layout.Attributes[2].Offset)
}

func TestMarshalVertices(t *testing.T) {
	buf := MarshalVertices([]GPUModelVertex{
		{Position: [3]float32{1, 2, 3}, TexCoord: [2]float32{0.5, 0.25}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{-1, -2, -3}},
	})
	require.Len(t, buf, 64)
	assert.Equal(t, float32(3), common.Float32At(buf, 8))
	assert.Equal(t, float32(0.25), common.Float32At(buf, 16))
	assert.Equal(t, float32(1), common.Float32At(buf, 24))
	assert.Equal(t, float32(-1), common.Float32At(buf, 32))
}

func TestMarshalIndices(t *testing.T) {
	buf := MarshalIndices([]uint32{0, 1, 258})
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 1, 0, 0}, buf)
	assert.Empty(t, MarshalIndices(nil))
}

func TestCubeTopology(t *testing.T) {
	cube := Cube(2)
	require.Len(t, cube.Meshes, 1)
	mesh := cube.Meshes[0]
	assert.Len(t, mesh.Vertices, 24)
	assert.Len(t, mesh.Indices, 36)
	assert.Equal(t, [3]float32{-1, -1, -1}, mesh.BoundingMin)
	assert.Equal(t, [3]float32{1, 1, 1}, mesh.BoundingMax)
	require.Len(t, cube.Materials, 1)

	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mgl32.Vec3(mesh.Vertices[mesh.Indices[i]].Position)
		b := mgl32.Vec3(mesh.Vertices[mesh.Indices[i+1]].Position)
		c := mgl32.Vec3(mesh.Vertices[mesh.Indices[i+2]].Position)
		n := mgl32.Vec3(mesh.Vertices[mesh.Indices[i]].Normal)
		face := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, face.Dot(n), float32(0), "triangle %d winds clockwise", i/3)
		assert.Greater(t, a.Dot(n), float32(0), "triangle %d faces inward", i/3)
	}
}

func TestComputeBoundsEmpty(t *testing.T) {
	m := ImportedMesh{BoundingMax: [3]float32{1, 1, 1}}
	m.ComputeBounds()
	assert.Equal(t, [3]float32{}, m.BoundingMax)
}

func TestModelMaterialLookup(t *testing.T) {
	red := material.NewMaterial(material.WithName("red"))
	blue := material.NewMaterial(material.WithName("blue"))
	m := NewModel(
		WithName("pair"),
		WithMeshes(
			Mesh{Name: "a", Provider: bind_group_provider.NewBindGroupProvider("a"), MaterialIndex: 1},
			Mesh{Name: "b", Provider: bind_group_provider.NewBindGroupProvider("b"), MaterialIndex: -1},
		),
		WithMaterials(red, blue),
	)
	assert.Equal(t, "pair", m.Name())
	assert.Equal(t, "blue", m.Material(m.Meshes()[0]).Name())
	assert.Equal(t, "red", m.Material(m.Meshes()[1]).Name())
	assert.NotPanics(t, m.Release)

	assert.Nil(t, NewModel().Material(Mesh{}))
}

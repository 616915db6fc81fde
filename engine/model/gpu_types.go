package model

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUModelVertex is the per-vertex record of a static mesh. It matches the VertexInput
// struct in the shaders at locations 0 to 2.
// Size: 32 bytes, no padding.
type GPUModelVertex struct {
	Position [3]float32 // offset  0: model-space position
	TexCoord [2]float32 // offset 12: UV, V pointing down the image
	Normal   [3]float32 // offset 20: model-space normal
}

// Size returns the size of the vertex in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUModelVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo writes the vertex into buf at offset and returns the next free offset.
func (g *GPUModelVertex) MarshalTo(buf []byte, offset int) int {
	offset = common.PutFloat32s(buf, offset, g.Position[:]...)
	offset = common.PutFloat32s(buf, offset, g.TexCoord[:]...)
	return common.PutFloat32s(buf, offset, g.Normal[:]...)
}

// VertexBufferLayout describes GPUModelVertex as a vertex-stepped buffer in slot 0.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout
func VertexBufferLayout() wgpu.VertexBufferLayout {
	var v GPUModelVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
		},
	}
}

// MarshalVertices serializes a vertex slice for upload.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: 32 bytes per vertex
func MarshalVertices(vertices []GPUModelVertex) []byte {
	var v GPUModelVertex
	buf := make([]byte, len(vertices)*v.Size())
	off := 0
	for i := range vertices {
		off = vertices[i].MarshalTo(buf, off)
	}
	return buf
}

// MarshalIndices serializes 32-bit indices for upload. The renderer draws with
// wgpu.IndexFormatUint32.
func MarshalIndices(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	copy(out, common.SliceToBytes(indices))
	return out
}

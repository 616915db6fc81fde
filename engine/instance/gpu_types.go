package instance

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUInstanceRaw is the per-instance vertex record. It matches the InstanceInput struct
// in the model shader at locations 5 to 11.
// Size: 100 bytes, no padding.
type GPUInstanceRaw struct {
	Model  [16]float32 // offset  0: column-major model matrix, locations 5-8
	Normal [9]float32  // offset 64: column-major normal matrix, locations 9-11
}

// Size returns the size of the record in bytes.
//
// Returns:
//   - int: the struct size in bytes (100)
func (g *GPUInstanceRaw) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo writes the record into buf at offset and returns the next free offset.
func (g *GPUInstanceRaw) MarshalTo(buf []byte, offset int) int {
	offset = common.PutFloat32s(buf, offset, g.Model[:]...)
	return common.PutFloat32s(buf, offset, g.Normal[:]...)
}

// VertexBufferLayout describes GPUInstanceRaw as an instance-stepped vertex buffer.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for vertex buffer slot 1
func VertexBufferLayout() wgpu.VertexBufferLayout {
	var raw GPUInstanceRaw
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(raw.Size()),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 5},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 6},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 7},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 8},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 64, ShaderLocation: 9},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 76, ShaderLocation: 10},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 88, ShaderLocation: 11},
		},
	}
}

package light

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// GPULightUniform mirrors the Light struct in the WGSL shaders.
// Size: 32 bytes.
type GPULightUniform struct {
	Position [4]float32 // offset  0: homogeneous world position
	Color    [4]float32 // offset 16: RGBA color
}

// Size returns the size of the uniform in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: the 32-byte buffer
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Position[:]...)
	common.PutFloat32s(buf, off, g.Color[:]...)
	return buf
}

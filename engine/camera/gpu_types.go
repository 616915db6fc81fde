package camera

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// GPUCameraUniform mirrors the CameraUniform struct in the WGSL shaders.
// Size: 80 bytes.
type GPUCameraUniform struct {
	ViewPosition [4]float32  // offset  0: world-space eye position, w = 1
	ViewProj     [16]float32 // offset 16: column-major view-projection matrix
}

// Size returns the size of the uniform in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Update fills the uniform from the current camera pose and projection.
//
// Parameters:
//   - cam: the camera to read position and view from
//   - proj: the projection to combine with the view
func (g *GPUCameraUniform) Update(cam Camera, proj Projection) {
	pos := cam.Position()
	g.ViewPosition = [4]float32{pos[0], pos[1], pos[2], 1}
	g.ViewProj = ViewProjection(cam, proj)
}

// Marshal serializes the uniform into a little-endian byte buffer for GPU upload.
//
// Returns:
//   - []byte: the serialized buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.ViewPosition[:]...)
	common.PutFloat32s(buf, off, g.ViewProj[:]...)
	return buf
}

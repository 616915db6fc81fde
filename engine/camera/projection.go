package camera

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

type projectionImpl struct {
	aspect float32
	fovy   float32
	znear  float32
	zfar   float32
}

// Projection holds the perspective parameters. Only the aspect ratio changes after creation.
type Projection interface {
	// Aspect returns width / height.
	Aspect() float32

	// Fovy returns the vertical field of view in radians.
	Fovy() float32

	// ZNear returns the near plane distance.
	ZNear() float32

	// ZFar returns the far plane distance.
	ZFar() float32

	// Resize recomputes the aspect ratio. Zero dimensions are ignored so a minimized
	// window keeps the last valid aspect.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	Resize(width, height int)

	// Matrix returns the perspective matrix remapped to WebGPU's [0, 1] depth range.
	//
	// Returns:
	//   - mgl32.Mat4: common.OpenGLToWGPU * Perspective(fovy, aspect, znear, zfar)
	Matrix() mgl32.Mat4
}

var _ Projection = &projectionImpl{}

// NewProjection creates a projection for a surface of the given size.
//
// Parameters:
//   - width, height: the surface size in pixels; a zero height falls back to an aspect of 1
//   - fovy: vertical field of view in radians
//   - znear, zfar: clip plane distances
//
// Returns:
//   - Projection: the new projection
func NewProjection(width, height int, fovy, znear, zfar float32) Projection {
	p := &projectionImpl{
		aspect: 1,
		fovy:   fovy,
		znear:  znear,
		zfar:   zfar,
	}
	p.Resize(width, height)
	return p
}

func (p *projectionImpl) Aspect() float32 {
	return p.aspect
}

func (p *projectionImpl) Fovy() float32 {
	return p.fovy
}

func (p *projectionImpl) ZNear() float32 {
	return p.znear
}

func (p *projectionImpl) ZFar() float32 {
	return p.zfar
}

func (p *projectionImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.aspect = float32(width) / float32(height)
}

func (p *projectionImpl) Matrix() mgl32.Mat4 {
	return common.OpenGLToWGPU.Mul4(mgl32.Perspective(p.fovy, p.aspect, p.znear, p.zfar))
}

package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOpenGLToWGPURemapsDepth(t *testing.T) {
	near := OpenGLToWGPU.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := OpenGLToWGPU.Mul4x1(mgl32.Vec4{0, 0, 1, 1})

	assert.InDelta(t, 0.0, near.Z()/near.W(), 1e-6)
	assert.InDelta(t, 1.0, far.Z()/far.W(), 1e-6)
}

func TestPutFloat32s(t *testing.T) {
	buf := make([]byte, 12)
	next := PutFloat32s(buf, 4, 1.5, -2)

	assert.Equal(t, 12, next)
	assert.Equal(t, float32(1.5), Float32At(buf, 4))
	assert.Equal(t, float32(-2), Float32At(buf, 8))
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0, WrapAngle(2*math.Pi), 1e-5)
	assert.InDelta(t, math.Pi/2, WrapAngle(math.Pi/2+4*math.Pi), 1e-4)
	assert.InDelta(t, -math.Pi/2, WrapAngle(-math.Pi/2-2*math.Pi), 1e-5)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]uint32{}))
	assert.Len(t, SliceToBytes([]uint32{1, 2, 3}), 12)
}

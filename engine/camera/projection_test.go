package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestProjectionMatchesReference(t *testing.T) {
	proj := NewProjection(1, 1, mgl32.DegToRad(45), 0.1, 100)

	want := mgl32.Mat4{}
	want[0] = 2.4142135
	want[5] = 2.4142135
	want[10] = -1.001001
	want[11] = -1
	want[14] = -0.1001001

	got := proj.Matrix()
	for i := range got {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestProjectionDepthRange(t *testing.T) {
	proj := NewProjection(800, 600, mgl32.DegToRad(45), 0.1, 100)
	m := proj.Matrix()

	near := m.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := m.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestProjectionResize(t *testing.T) {
	proj := NewProjection(800, 600, mgl32.DegToRad(45), 0.1, 100)
	assert.InDelta(t, 800.0/600.0, proj.Aspect(), 1e-6)

	proj.Resize(0, 0)
	assert.InDelta(t, 800.0/600.0, proj.Aspect(), 1e-6)

	proj.Resize(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, proj.Aspect(), 1e-6)
}

func TestNewProjectionZeroSize(t *testing.T) {
	proj := NewProjection(0, 0, mgl32.DegToRad(45), 0.1, 100)
	assert.Equal(t, float32(1), proj.Aspect())
}

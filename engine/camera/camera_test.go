package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera()
	assert.Equal(t, mgl32.Vec3{0, 5, 10}, cam.Position())
	assert.InDelta(t, mgl32.DegToRad(-90), cam.Yaw(), 1e-6)
	assert.InDelta(t, mgl32.DegToRad(-20), cam.Pitch(), 1e-6)
	require.NotNil(t, cam.BindGroupProvider())
	assert.Equal(t, "camera", cam.BindGroupProvider().Label())
}

func TestCameraForward(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
		want       mgl32.Vec3
	}{
		{"down -z", -90, 0, mgl32.Vec3{0, 0, -1}},
		{"along +x", 0, 0, mgl32.Vec3{1, 0, 0}},
		{"straight up", 0, 90, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(WithYaw(mgl32.DegToRad(tt.yaw)), WithPitch(mgl32.DegToRad(tt.pitch)))
			got := cam.Forward()
			assert.InDelta(t, 1, got.Len(), 1e-6)
			for i := range 3 {
				assert.InDelta(t, tt.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestCameraViewMatrix(t *testing.T) {
	cam := NewCamera(WithPosition(mgl32.Vec3{1, 2, 3}), WithYaw(mgl32.DegToRad(-90)), WithPitch(0))
	view := cam.ViewMatrix()

	eye := view.Mul4x1(mgl32.Vec4{1, 2, 3, 1})
	assert.InDelta(t, 0, eye.Vec3().Len(), 1e-5)

	// A point in front of the camera lands on the -Z view axis.
	ahead := view.Mul4x1(mgl32.Vec4{1, 2, -2, 1})
	assert.InDelta(t, 0, ahead.X(), 1e-5)
	assert.InDelta(t, 0, ahead.Y(), 1e-5)
	assert.InDelta(t, -5, ahead.Z(), 1e-5)
}

func TestGPUCameraUniform(t *testing.T) {
	cam := NewCamera()
	proj := NewProjection(800, 600, mgl32.DegToRad(45), 0.1, 100)

	var u GPUCameraUniform
	u.Update(cam, proj)
	assert.Equal(t, 80, u.Size())
	assert.Equal(t, [4]float32{0, 5, 10, 1}, u.ViewPosition)

	buf := u.Marshal()
	require.Len(t, buf, 80)
	assert.Equal(t, float32(5), common.Float32At(buf, 4))
	vp := ViewProjection(cam, proj)
	assert.Equal(t, vp[0], common.Float32At(buf, 16))
	assert.Equal(t, vp[15], common.Float32At(buf, 76))
}

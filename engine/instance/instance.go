// Package instance holds per-instance transforms and packs them into the vertex-stepped
// records the main pipeline reads from its second vertex buffer.
package instance

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Instance is one drawn copy of a mesh.
type Instance struct {
	Position mgl32.Vec3
	// Rotation must be a unit quaternion.
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Identity returns an instance at the origin with no rotation and unit scale.
func Identity() Instance {
	return Instance{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// ModelMatrix composes translation * rotation * scale, so scale is applied first and
// translation last.
//
// Returns:
//   - mgl32.Mat4: the model-to-world transform
func (i Instance) ModelMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z())
	s := mgl32.Scale3D(i.Scale.X(), i.Scale.Y(), i.Scale.Z())
	return t.Mul4(i.Rotation.Mat4()).Mul4(s)
}

// NormalMatrix returns the inverse-transpose of the model matrix's upper-left 3x3.
// A singular model matrix (a zero scale axis) yields the zero matrix.
//
// Returns:
//   - mgl32.Mat3: the normal transform
func (i Instance) NormalMatrix() mgl32.Mat3 {
	return i.ModelMatrix().Mat3().Inv().Transpose()
}

// ToRaw builds the GPU record for this instance.
//
// Returns:
//   - GPUInstanceRaw: the packed model and normal matrices
func (i Instance) ToRaw() GPUInstanceRaw {
	return GPUInstanceRaw{
		Model:  i.ModelMatrix(),
		Normal: i.NormalMatrix(),
	}
}

// FromEuler builds an instance from a translation, XYZ Euler angles in radians and a scale.
// The rotation is applied as Rz * Ry * Rx, so X is applied first.
//
// Parameters:
//   - translation: world-space position
//   - euler: rotation about X, Y and Z in radians
//   - scale: per-axis scale
//
// Returns:
//   - Instance: the equivalent instance
func FromEuler(translation, euler, scale mgl32.Vec3) Instance {
	rx := mgl32.QuatRotate(euler.X(), mgl32.Vec3{1, 0, 0})
	ry := mgl32.QuatRotate(euler.Y(), mgl32.Vec3{0, 1, 0})
	rz := mgl32.QuatRotate(euler.Z(), mgl32.Vec3{0, 0, 1})
	return Instance{
		Position: translation,
		Rotation: rz.Mul(ry).Mul(rx).Normalize(),
		Scale:    scale,
	}
}

package instance

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelMatrixOrder(t *testing.T) {
	inst := Instance{
		Position: mgl32.Vec3{1, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	got := inst.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, got.X(), 1e-6)
	assert.InDelta(t, 0, got.Y(), 1e-6)
	assert.InDelta(t, 0, got.Z(), 1e-6)
}

func TestModelMatrixRotationBetweenScaleAndTranslation(t *testing.T) {
	inst := Instance{
		Position: mgl32.Vec3{0, 0, 5},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{2, 1, 1},
	}
	// Scale stretches X to 2, the Y rotation turns +X into -Z, then translation adds 5 to Z.
	got := inst.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, got.X(), 1e-5)
	assert.InDelta(t, 3, got.Z(), 1e-5)
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	inst := Instance{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{2, 1, 1},
	}
	n := inst.NormalMatrix()
	assert.InDelta(t, 0.5, n.At(0, 0), 1e-6)
	assert.InDelta(t, 1, n.At(1, 1), 1e-6)
	assert.InDelta(t, 1, n.At(2, 2), 1e-6)

	// A surface tilted 45 degrees in XY keeps a normal perpendicular to its stretched tangent.
	tangent := inst.ModelMatrix().Mat3().Mul3x1(mgl32.Vec3{1, -1, 0})
	normal := n.Mul3x1(mgl32.Vec3{1, 1, 0})
	assert.InDelta(t, 0, tangent.Dot(normal), 1e-6)
}

func TestSetRawLength(t *testing.T) {
	for _, n := range []int{0, 1, 100} {
		instances := make([]Instance, n)
		for i := range instances {
			instances[i] = Identity()
		}
		set := NewSet(instances...)
		set.Repack()
		assert.Equal(t, n, set.Len())
		assert.Equal(t, set.Len(), set.RawLen())

		var rec GPUInstanceRaw
		assert.Len(t, set.Marshal(), n*rec.Size())
	}
}

func TestSetRepackPicksUpChanges(t *testing.T) {
	set := NewSet(Identity(), Identity())
	set.Instances()[1].Position = mgl32.Vec3{4, 5, 6}
	set.Repack()

	raw := set.Raw()[1]
	assert.Equal(t, float32(4), raw.Model[12])
	assert.Equal(t, float32(5), raw.Model[13])
	assert.Equal(t, float32(6), raw.Model[14])
}

func TestGPUInstanceRawLayout(t *testing.T) {
	var rec GPUInstanceRaw
	assert.Equal(t, 100, rec.Size())

	layout := VertexBufferLayout()
	assert.Equal(t, uint64(100), layout.ArrayStride)
	require.Len(t, layout.Attributes, 7)
	for i, attr := range layout.Attributes {
		assert.Equal(t, uint32(5+i), attr.ShaderLocation)
	}
	assert.Equal(t, uint64(88), layout.Attributes[6].Offset)

	set := NewSet(Instance{Position: mgl32.Vec3{7, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}})
	buf := set.Marshal()
	assert.Equal(t, float32(7), common.Float32At(buf, 48))
	assert.Equal(t, float32(1), common.Float32At(buf, 64))
	assert.Equal(t, float32(1), common.Float32At(buf, 96))
}

func TestGrid(t *testing.T) {
	insts := Grid(10, 3, 1)
	require.Len(t, insts, 100)
	assert.Equal(t, mgl32.Vec3{-15, 0, -15}, insts[0].Position)
	assert.Equal(t, mgl32.Vec3{12, 0, 12}, insts[99].Position)

	centre := insts[5*10+5]
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, centre.Position)
	assert.Equal(t, mgl32.QuatIdent(), centre.Rotation)

	for _, inst := range insts {
		assert.InDelta(t, 1, inst.Rotation.Len(), 1e-5)
	}
	assert.Empty(t, Grid(0, 3, 1))
}

func TestSingle(t *testing.T) {
	insts := Single()
	require.Len(t, insts, 1)
	assert.Equal(t, mgl32.Ident4(), insts[0].ModelMatrix())
}

func TestFromEuler(t *testing.T) {
	inst := FromEuler(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, mgl32.DegToRad(90), 0}, mgl32.Vec3{1, 1, 1})
	got := inst.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, got.X(), 1e-5)
	assert.InDelta(t, 2, got.Y(), 1e-5)
	assert.InDelta(t, 2, got.Z(), 1e-5)

	// X first, then Z: +Y rotated 90 about X is +Z, which a Z rotation leaves alone.
	inst = FromEuler(mgl32.Vec3{}, mgl32.Vec3{mgl32.DegToRad(90), 0, mgl32.DegToRad(90)}, mgl32.Vec3{1, 1, 1})
	got = inst.ModelMatrix().Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, 0, got.X(), 1e-5)
	assert.InDelta(t, 0, got.Y(), 1e-5)
	assert.InDelta(t, 1, got.Z(), 1e-5)
}

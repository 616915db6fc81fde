package instance

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// Set is the ordered collection of instances drawn with one mesh, together with its
// packed GPU records. Order is draw order.
type Set struct {
	instances []Instance
	raw       []GPUInstanceRaw
	provider  bind_group_provider.BindGroupProvider
}

// NewSet creates a set and packs it once.
//
// Parameters:
//   - instances: the instances, copied
//
// Returns:
//   - *Set: the new set
func NewSet(instances ...Instance) *Set {
	s := &Set{
		instances: append([]Instance(nil), instances...),
		provider:  bind_group_provider.NewBindGroupProvider("instances"),
	}
	s.Repack()
	return s
}

// Instances returns the instances. Callers may mutate elements in place; the change is
// picked up by the next Repack.
func (s *Set) Instances() []Instance {
	return s.instances
}

// Len returns the number of instances.
func (s *Set) Len() int {
	return len(s.instances)
}

// RawLen returns the number of packed records.
func (s *Set) RawLen() int {
	return len(s.raw)
}

// Raw returns the packed records from the last Repack.
func (s *Set) Raw() []GPUInstanceRaw {
	return s.raw
}

// Provider returns the provider holding the instance vertex buffer.
func (s *Set) Provider() bind_group_provider.BindGroupProvider {
	return s.provider
}

// Repack rebuilds every raw record from the instances. There are no partial updates.
func (s *Set) Repack() {
	if cap(s.raw) < len(s.instances) {
		s.raw = make([]GPUInstanceRaw, len(s.instances))
	}
	s.raw = s.raw[:len(s.instances)]
	for i, inst := range s.instances {
		s.raw[i] = inst.ToRaw()
	}
}

// Marshal serializes all raw records for upload.
//
// Returns:
//   - []byte: len(raw) * 100 bytes
func (s *Set) Marshal() []byte {
	var rec GPUInstanceRaw
	buf := make([]byte, len(s.raw)*rec.Size())
	off := 0
	for i := range s.raw {
		off = s.raw[i].MarshalTo(buf, off)
	}
	return buf
}

// BufferWrite returns the write that uploads the whole packed array.
func (s *Set) BufferWrite() bind_group_provider.BufferWrite {
	return bind_group_provider.BufferWrite{
		Provider: s.provider,
		Binding:  bind_group_provider.VertexBufferBinding,
		Data:     s.Marshal(),
	}
}

// Single returns one identity instance.
func Single() []Instance {
	return []Instance{Identity()}
}

// Grid lays out perRow*perRow instances on the XZ plane, centred on the origin.
// Each instance is rotated 45 degrees about its own normalised position; the one at the
// origin keeps the identity rotation.
//
// Parameters:
//   - perRow: instances per row and per column
//   - spacing: distance between neighbours
//   - scale: uniform scale applied to every instance
//
// Returns:
//   - []Instance: the instances in row-major order
func Grid(perRow int, spacing, scale float32) []Instance {
	if perRow <= 0 {
		return nil
	}
	half := float32(perRow) / 2
	out := make([]Instance, 0, perRow*perRow)
	for z := range perRow {
		for x := range perRow {
			pos := mgl32.Vec3{spacing * (float32(x) - half), 0, spacing * (float32(z) - half)}
			rot := mgl32.QuatIdent()
			if pos.Len() > 1e-6 {
				rot = mgl32.QuatRotate(math.Pi/4, pos.Normalize())
			}
			out = append(out, Instance{
				Position: pos,
				Rotation: rot,
				Scale:    mgl32.Vec3{scale, scale, scale},
			})
		}
	}
	return out
}

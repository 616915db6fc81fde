package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// cubeFaces lists each face as normal, u axis, v axis with u x v = normal, so corners
// walked (-u,-v) (+u,-v) (+u,+v) (-u,+v) wind counter-clockwise seen from outside.
var cubeFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Cube builds an axis-aligned cube centered on the origin with one white material.
// Each face has its own four vertices so normals and UVs stay flat.
//
// Parameters:
//   - size: the edge length
//
// Returns:
//   - *ImportedModel: a single-mesh model with 24 vertices and 36 indices
func Cube(size float32) *ImportedModel {
	h := size / 2
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	mesh := ImportedMesh{
		Name:     "cube",
		Vertices: make([]GPUModelVertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		base := uint32(len(mesh.Vertices))
		for i, c := range corners {
			p := n.Add(u.Mul(c[0])).Add(v.Mul(c[1])).Mul(h)
			mesh.Vertices = append(mesh.Vertices, GPUModelVertex{
				Position: [3]float32(p),
				TexCoord: uvs[i],
				Normal:   [3]float32(n),
			})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	mesh.ComputeBounds()

	return &ImportedModel{
		Name:   "cube",
		Meshes: []ImportedMesh{mesh},
		Materials: []common.ImportedMaterial{{
			Name:         "cube",
			DiffuseColor: [4]float32{1, 1, 1, 1},
		}},
	}
}

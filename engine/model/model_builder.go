package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// ModelBuilderOption is a functional option applied by NewModel.
type ModelBuilderOption func(*modelImpl)

// WithName sets the model identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that sets the name
func WithName(name string) ModelBuilderOption {
	return func(m *modelImpl) {
		m.name = name
	}
}

// WithMeshes appends uploaded sub-meshes.
//
// Parameters:
//   - meshes: the meshes in draw order
//
// Returns:
//   - ModelBuilderOption: a function that appends the meshes
func WithMeshes(meshes ...Mesh) ModelBuilderOption {
	return func(m *modelImpl) {
		m.meshes = append(m.meshes, meshes...)
	}
}

// WithMaterials appends render materials.
//
// Parameters:
//   - mats: the materials, indexed by Mesh.MaterialIndex
//
// Returns:
//   - ModelBuilderOption: a function that appends the materials
func WithMaterials(mats ...material.Material) ModelBuilderOption {
	return func(m *modelImpl) {
		m.materials = append(m.materials, mats...)
	}
}

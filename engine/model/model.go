// Package model holds mesh data: the CPU-side ImportedModel produced by loaders and the
// GPU-ready Model the scene draws.
package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// Mesh is an uploaded sub-mesh. Its provider holds the vertex buffer, index buffer and
// index count.
type Mesh struct {
	Name          string
	Provider      bind_group_provider.BindGroupProvider
	MaterialIndex int
}

type modelImpl struct {
	name      string
	meshes    []Mesh
	materials []material.Material
}

// Model is a GPU-ready mesh collection with its render materials.
type Model interface {
	// Name returns the model identifier.
	Name() string

	// Meshes returns the uploaded sub-meshes in draw order.
	//
	// Returns:
	//   - []Mesh: the sub-meshes
	Meshes() []Mesh

	// Materials returns the render materials indexed by Mesh.MaterialIndex.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// Material resolves the material for a mesh. Meshes without a valid index use the
	// first material.
	//
	// Parameters:
	//   - mesh: the sub-mesh
	//
	// Returns:
	//   - material.Material: the material, or nil if the model has none
	Material(mesh Mesh) material.Material

	// Release frees every GPU resource held by the meshes and materials.
	Release()
}

var _ Model = &modelImpl{}

// NewModel creates a Model from its uploaded parts.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &modelImpl{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *modelImpl) Name() string {
	return m.name
}

func (m *modelImpl) Meshes() []Mesh {
	return m.meshes
}

func (m *modelImpl) Materials() []material.Material {
	return m.materials
}

func (m *modelImpl) Material(mesh Mesh) material.Material {
	if len(m.materials) == 0 {
		return nil
	}
	if mesh.MaterialIndex < 0 || mesh.MaterialIndex >= len(m.materials) {
		return m.materials[0]
	}
	return m.materials[mesh.MaterialIndex]
}

func (m *modelImpl) Release() {
	for _, mesh := range m.meshes {
		if mesh.Provider != nil {
			mesh.Provider.Release()
		}
	}
	for _, mat := range m.materials {
		if p := mat.BindGroupProvider(); p != nil {
			p.Release()
		}
	}
}

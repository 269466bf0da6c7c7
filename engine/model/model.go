package model

import (
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	name                  string
	mesh                  *Mesh
	meshProvider          bind_group_provider.BindGroupProvider
	boundingRadius        float32
	vertexData, indexData []byte
	indexCount            int
}

// Model is a GPU-ready mesh: the CPU vertex and index bytes staged for upload and the
// BindGroupProvider that owns the uploaded vertex, index and instance buffers.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Mesh returns the source mesh, or nil when the model was built from raw bytes.
	Mesh() *Mesh

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexData returns the 44-byte-stride vertex bytes staged for upload.
	VertexData() []byte

	// IndexData returns the Uint32 index bytes staged for upload.
	IndexData() []byte

	// IndexCount returns the number of indices drawn per instance.
	IndexCount() int

	// BoundingRadius returns the radius of a sphere around the model origin containing every vertex.
	BoundingRadius() float32

	// ReleaseStaging drops the CPU vertex and index bytes once the GPU buffers exist.
	ReleaseStaging()
}

var _ Model = &model{}

// NewModel creates a Model. WithMesh fills the vertex data, index data, index count and
// bounding radius from a Mesh; the raw-byte options override them.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider("mesh_" + m.name)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() *Mesh {
	return m.mesh
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) ReleaseStaging() {
	m.vertexData = nil
	m.indexData = nil
}

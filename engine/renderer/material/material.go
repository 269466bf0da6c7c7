// Package material pairs a diffuse texture with its sampler and owns the bind group
// provider the textured pipelines read at the texture group.
package material

import (
	"sync"

	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
	"github.com/mjm114514/personal-wgpu-demos/engine/texture"
)

const (
	// DiffuseTextureBinding is the binding of the sampled image.
	DiffuseTextureBinding = 0
	// DiffuseSamplerBinding is the binding of the sampler.
	DiffuseSamplerBinding = 1
)

type material struct {
	mu sync.Mutex

	name        string
	pipelineKey string
	diffuse     *common.TextureStagingData
	sampler     *common.SamplerStagingData

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material is the surface description of a render item: the pipeline it draws with and the
// texture and sampler it binds.
type Material interface {
	// Name retrieves the material identifier.
	Name() string

	// PipelineKey retrieves the key of the pipeline this material draws with.
	PipelineKey() string

	// Diffuse retrieves the staged diffuse texels.
	Diffuse() *common.TextureStagingData

	// Sampler retrieves the sampler configuration.
	Sampler() *common.SamplerStagingData

	// BindGroupProvider returns the provider bound at the texture group, created on the first
	// call with the diffuse texture and sampler staged at their bindings. The renderer uploads
	// them the first time the provider's bind group is initialized.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the texture group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Material = &material{}

// NewMaterial creates a Material. Without WithDiffuse it is a single white texel, and
// without WithSampler it uses texture.DefaultSampler.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{}
	for _, opt := range options {
		opt(m)
	}
	if m.diffuse == nil {
		m.diffuse = &common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	}
	if m.sampler == nil {
		m.sampler = texture.DefaultSampler()
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) Diffuse() *common.TextureStagingData {
	return m.diffuse
}

func (m *material) Sampler() *common.SamplerStagingData {
	return m.sampler
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider("material_"+m.name,
			bind_group_provider.WithTexture(DiffuseTextureBinding, m.diffuse),
			bind_group_provider.WithSampler(DiffuseSamplerBinding, m.sampler),
		)
	}
	return m.bindGroupProvider
}

package material

import (
	"github.com/mjm114514/personal-wgpu-demos/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithPipelineKey sets the pipeline the material draws with.
//
// Parameters:
//   - key: a registered pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithDiffuse sets the diffuse texels.
func WithDiffuse(data *common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = data
	}
}

// WithSampler sets the sampler filtering and addressing.
func WithSampler(data *common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = data
	}
}

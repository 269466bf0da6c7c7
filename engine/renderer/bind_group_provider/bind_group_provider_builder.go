package bind_group_provider

import (
	"github.com/mjm114514/personal-wgpu-demos/common"
)

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithTexture stages RGBA pixel data for a texture binding.
//
// Parameters:
//   - binding: the binding index of the texture
//   - data: the pixels to upload on InitBindGroup
//
// Returns:
//   - BindGroupProviderOption: a function that stages the texture
func WithTexture(binding int, data *common.TextureStagingData) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureStaging[binding] = data
	}
}

// WithSampler stages a sampler configuration for a sampler binding.
//
// Parameters:
//   - binding: the binding index of the sampler
//   - data: the sampler configuration, see common.SamplerStagingData for zero values
//
// Returns:
//   - BindGroupProviderOption: a function that stages the sampler
func WithSampler(binding int, data *common.SamplerStagingData) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplerStaging[binding] = data
	}
}

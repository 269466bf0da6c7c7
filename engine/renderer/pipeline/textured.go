package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/mjm114514/personal-wgpu-demos/engine/camera"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/shader"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/shader/assets"
)

// Bind group indices shared by the textured pipelines.
const (
	TextureGroup = 0
	CameraGroup  = 1
)

// VertexBindings is what the host binds for both textured vertex programs: the camera uniform
// block at group 1 binding 0.
func VertexBindings() []shader.BindingExpectation {
	return []shader.BindingExpectation{
		{Group: CameraGroup, Binding: 0, Kind: shader.ResourceKindUniformBuffer, MinSize: camera.GPUUniformsSize},
	}
}

// FragmentBindings is what the host binds for the textured fragment program: the diffuse texture
// at group 0 binding 0 and its sampler at binding 1.
func FragmentBindings() []shader.BindingExpectation {
	return []shader.BindingExpectation{
		{Group: TextureGroup, Binding: 0, Kind: shader.ResourceKindTexture},
		{Group: TextureGroup, Binding: 1, Kind: shader.ResourceKindSampler},
	}
}

// NewTexturedPipeline loads the embedded textured programs, checks them against the engine's
// vertex layouts and binding table, and returns the unregistered pipeline.
//
// Parameters:
//   - key: the pipeline key; shader keys are derived from it
//   - instanced: true for the per-instance transform program, false for the static one
//   - opts: additional fixed-function options
//
// Returns:
//   - Pipeline: the validated pipeline
//   - error: a shader loading error, or one wrapping shader.ErrLocationMismatch or
//     shader.ErrBindingMismatch
func NewTexturedPipeline(key string, instanced bool, opts ...PipelineBuilderOption) (Pipeline, error) {
	source, layouts := assets.StaticVertex, []wgpu.VertexBufferLayout{model.StaticVertexLayout()}
	if instanced {
		source, layouts = assets.InstancedVertex, model.InstancedVertexLayouts()
	}

	vs, err := shader.NewShader(key+"_vs", shader.ShaderTypeVertex,
		shader.WithSource(source),
		shader.WithVertexLayouts(layouts...),
	)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	fs, err := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, shader.WithSource(assets.TexturedFragment))
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}

	p := NewPipeline(key, append([]PipelineBuilderOption{
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithBindings(VertexBindings(), FragmentBindings()),
	}, opts...)...)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

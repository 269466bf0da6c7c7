package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader module is written for.
type ShaderType int

const (
	// ShaderTypeVertex is a module with a @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a module with a @fragment entry point.
	ShaderTypeFragment
)

func (t ShaderType) visibility() wgpu.ShaderStage {
	if t == ShaderTypeFragment {
		return wgpu.ShaderStageFragment
	}
	return wgpu.ShaderStageVertex
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	module     *wgpu.ShaderModuleDescriptor

	vertexInputs               []VertexInput
	vertexLayouts              []wgpu.VertexBufferLayout
	bindings                   []Binding
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor

	pp PreProcessor
}

// Shader is a pre-processed and reflected WGSL module. It exposes what the renderer needs to
// build a pipeline (module, entry point, vertex layouts, bind group layouts) and what the scene
// needs to wire resources (declarations, bindings).
type Shader interface {
	// Key returns the unique identifier of the shader.
	Key() string

	// Source returns the WGSL source after pre-processing.
	Source() string

	// ShaderType returns the stage the shader was loaded as.
	ShaderType() ShaderType

	// EntryPoint returns the name of the @vertex or @fragment function.
	EntryPoint() string

	// Module returns the shader module descriptor passed to the device.
	Module() *wgpu.ShaderModuleDescriptor

	// VertexInputs returns the reflected @location inputs sorted by location.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []VertexInput: the vertex inputs of the module
	VertexInputs() []VertexInput

	// VertexLayouts returns the vertex buffer layouts the pipeline is built with, in slot order.
	// These are the layouts given with WithVertexLayouts or, without that option, one packed
	// per-vertex layout per vertex input struct.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts in buffer slot order
	VertexLayouts() []wgpu.VertexBufferLayout

	// Bindings returns every reflected @group/@binding declaration sorted by group then binding.
	Bindings() []Binding

	// BindGroupLayoutDescriptor returns the layout descriptor of one group, or an empty descriptor.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the group's layout descriptor
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns all layout descriptors keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable name at group and binding, or "".
	BindGroupVarName(group, binding int) string

	// Declarations returns the @wgd:group and @wgd:provider directives found in the source.
	// The scene uses them to pick the provider for each bind group.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation

	// ValidateVertexLayouts checks that every reflected vertex input is fed by exactly one
	// attribute of layouts with the same number of components.
	//
	// Parameters:
	//   - layouts: the host vertex buffer layouts
	//
	// Returns:
	//   - error: an error wrapping ErrLocationMismatch, or nil
	ValidateVertexLayouts(layouts []wgpu.VertexBufferLayout) error

	// ValidateBindings checks the reflected bindings against the host's expectations.
	// Every expectation must be declared with the same resource kind and the module must
	// not declare a binding the host does not expect.
	//
	// Parameters:
	//   - expect: the bindings the host will provide
	//
	// Returns:
	//   - error: an error wrapping ErrBindingMismatch, or nil
	ValidateBindings(expect []BindingExpectation) error
}

var _ Shader = &shader{}

// ShaderBuilderOption is a functional option applied to a shader in NewShader.
type ShaderBuilderOption func(*shaderConfig)

type shaderConfig struct {
	source        string
	sourcePath    string
	vertexLayouts []wgpu.VertexBufferLayout
}

// WithSource sets the WGSL source directly, typically from an embedded asset.
//
// Parameters:
//   - source: the raw WGSL source
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source option
func WithSource(source string) ShaderBuilderOption {
	return func(c *shaderConfig) {
		c.source = source
	}
}

// WithSourceFromPath reads the WGSL source from a file when the shader is built.
//
// Parameters:
//   - path: the WGSL file path
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source path option
func WithSourceFromPath(path string) ShaderBuilderOption {
	return func(c *shaderConfig) {
		c.sourcePath = path
	}
}

// WithVertexLayouts replaces the reflected vertex layouts with host layouts. The layouts
// are validated against the reflected inputs before the shader is returned.
//
// Parameters:
//   - layouts: the vertex buffer layouts in slot order
//
// Returns:
//   - ShaderBuilderOption: a function that applies the vertex layout option
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(c *shaderConfig) {
		c.vertexLayouts = layouts
	}
}

// NewShader loads, pre-processes and reflects a WGSL module.
//
// Parameters:
//   - key: a unique identifier used as the module label and pipeline cache key
//   - shaderType: the stage the module is written for
//   - opts: source and layout options; one of WithSource or WithSourceFromPath is required
//
// Returns:
//   - Shader: the reflected shader
//   - error: an error if the source is missing, malformed, has no entry point, or the host
//     layouts do not match the reflected inputs
func NewShader(key string, shaderType ShaderType, opts ...ShaderBuilderOption) (Shader, error) {
	cfg := &shaderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	raw := cfg.source
	if cfg.sourcePath != "" {
		data, err := os.ReadFile(cfg.sourcePath)
		if err != nil {
			return nil, fmt.Errorf("shader %s: reading source: %w", key, err)
		}
		raw = string(data)
	}
	if raw == "" {
		return nil, fmt.Errorf("shader %s: no source provided", key)
	}

	s := &shader{
		key:        key,
		shaderType: shaderType,
		pp:         NewPreProcessor(),
	}
	var err error
	if s.source, err = s.pp.Process(raw); err != nil {
		return nil, fmt.Errorf("shader %s: pre-processing: %w", key, err)
	}
	if s.entryPoint = parseEntryPoint(s.source, shaderType); s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point for stage", key)
	}
	if shaderType == ShaderTypeVertex {
		if s.vertexInputs, err = parseVertexInputs(s.source); err != nil {
			return nil, fmt.Errorf("shader %s: %w", key, err)
		}
		s.vertexLayouts = parseVertexLayouts(s.source)
		if cfg.vertexLayouts != nil {
			if err := s.ValidateVertexLayouts(cfg.vertexLayouts); err != nil {
				return nil, fmt.Errorf("shader %s: %w", key, err)
			}
			s.vertexLayouts = cfg.vertexLayouts
		}
	}
	s.bindings = parseBindings(s.source)
	s.bindGroupLayoutDescriptors = buildBindGroupLayouts(s.source, s.bindings, shaderType.visibility())
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexInputs() []VertexInput {
	return s.vertexInputs
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	for _, b := range s.bindings {
		if b.Group == group && b.Binding == binding {
			return b.VarName
		}
	}
	return ""
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}

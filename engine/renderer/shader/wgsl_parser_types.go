package shader

import "github.com/cogentcore/webgpu/wgpu"

// ResourceKind classifies a @group/@binding declaration.
type ResourceKind int

const (
	ResourceKindUnknown ResourceKind = iota
	ResourceKindUniformBuffer
	ResourceKindStorageBuffer
	ResourceKindTexture
	ResourceKindSampler
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindUniformBuffer:
		return "uniform buffer"
	case ResourceKindStorageBuffer:
		return "storage buffer"
	case ResourceKindTexture:
		return "texture"
	case ResourceKindSampler:
		return "sampler"
	}
	return "unknown"
}

// VertexInput is one @location field of a vertex input struct.
type VertexInput struct {
	// Struct is the WGSL struct that declares the field.
	Struct   string
	Name     string
	Location uint32
	// Format is the vertex format the WGSL type maps to.
	Format wgpu.VertexFormat
}

// Binding is one reflected @group/@binding declaration.
type Binding struct {
	Group   int
	Binding int
	VarName string
	Kind    ResourceKind
	// Size is the byte size of the bound type for buffer bindings, 0 otherwise.
	Size uint64
}

// vertexFormatInfo pairs a vertex format with its byte size and component count.
type vertexFormatInfo struct {
	format     wgpu.VertexFormat
	size       uint64
	components int
}

// wgslTypeLayout holds the byte size and alignment of a host-shareable WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

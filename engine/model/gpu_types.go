package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (44 bytes, tightly packed).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is a single mesh vertex as uploaded to the vertex buffer.
// Size: 44 bytes, no padding.
type GPUVertex struct {
	Position [3]float32 // offset  0, location 0
	Normal   [3]float32 // offset 12, location 1
	Tangent  [3]float32 // offset 24, location 2
	TexCoord [2]float32 // offset 36, location 3
}

// GPUVertexSize is the byte stride of GPUVertex in a vertex buffer.
const GPUVertexSize = 44

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 44-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexSize)
	g.put(buf)
	return buf
}

func (g *GPUVertex) put(buf []byte) {
	fields := [11]float32{
		g.Position[0], g.Position[1], g.Position[2],
		g.Normal[0], g.Normal[1], g.Normal[2],
		g.Tangent[0], g.Tangent[1], g.Tangent[2],
		g.TexCoord[0], g.TexCoord[1],
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}

// Midpoint returns the attribute-wise average of two vertices.
func Midpoint(a, b GPUVertex) GPUVertex {
	var m GPUVertex
	for i := 0; i < 3; i++ {
		m.Position[i] = (a.Position[i] + b.Position[i]) / 2
		m.Normal[i] = (a.Normal[i] + b.Normal[i]) / 2
		m.Tangent[i] = (a.Tangent[i] + b.Tangent[i]) / 2
	}
	m.TexCoord[0] = (a.TexCoord[0] + b.TexCoord[0]) / 2
	m.TexCoord[1] = (a.TexCoord[1] + b.TexCoord[1]) / 2
	return m
}

// MarshalVertices serializes a vertex slice into one contiguous little-endian buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*44 bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, len(vertices)*GPUVertexSize)
	for i := range vertices {
		vertices[i].put(buf[i*GPUVertexSize:])
	}
	return buf
}

// GPUInstanceSource is the canonical WGSL definition of the InstanceInput struct.
// Matches GPUInstance layout exactly (4 x vec4<f32>, 64 bytes).
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// GPUInstance is the per-instance transform streamed at locations 5 to 8.
// Rows[i] is column i of the column-major model matrix, which is what
// mat4x4<f32>(r0, r1, r2, r3) reconstructs in WGSL.
type GPUInstance struct {
	Rows [4][4]float32
}

// GPUInstanceSize is the byte stride of GPUInstance in an instance buffer.
const GPUInstanceSize = 64

// InstanceFromMatrix builds a GPUInstance from a column-major 4x4 matrix.
func InstanceFromMatrix(m [16]float32) GPUInstance {
	var g GPUInstance
	for c := 0; c < 4; c++ {
		copy(g.Rows[c][:], m[c*4:c*4+4])
	}
	return g
}

// Matrix returns the instance transform as a flat column-major matrix.
func (g *GPUInstance) Matrix() [16]float32 {
	var m [16]float32
	for c := 0; c < 4; c++ {
		copy(m[c*4:c*4+4], g.Rows[c][:])
	}
	return m
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, GPUInstanceSize)
	g.put(buf)
	return buf
}

func (g *GPUInstance) put(buf []byte) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint32(buf[(r*4+c)*4:], math.Float32bits(g.Rows[r][c]))
		}
	}
}

// MarshalInstances serializes instances into dst, growing it if needed, and returns the
// written slice. Reusing dst across frames avoids per-frame allocation.
//
// Parameters:
//   - dst: destination buffer to reuse, may be nil
//   - instances: the instances to serialize
//
// Returns:
//   - []byte: len(instances)*64 bytes
func MarshalInstances(dst []byte, instances []GPUInstance) []byte {
	n := len(instances) * GPUInstanceSize
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i := range instances {
		instances[i].put(dst[i*GPUInstanceSize:])
	}
	return dst
}

// StaticVertexLayout returns the buffer layout for the static pipeline:
// position, normal, tangent and texcoord at locations 0 to 3.
//
// Returns:
//   - wgpu.VertexBufferLayout: the mesh buffer layout, stepped per vertex
func StaticVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 36, ShaderLocation: 3},
		},
	}
}

// InstancedVertexLayouts returns the two buffer layouts of the instanced pipeline.
// Slot 0 reads position (location 0) and texcoord (location 1) out of the same
// 44-byte mesh vertices the static pipeline uses. Slot 1 steps per instance and
// carries the four transform rows at locations 5 to 8.
//
// Returns:
//   - []wgpu.VertexBufferLayout: mesh layout followed by instance layout
func InstancedVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: GPUVertexSize,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 36, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: GPUInstanceSize,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 5},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 6},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 7},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 8},
			},
		},
	}
}

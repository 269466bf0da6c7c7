package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUUniformsSource is the canonical WGSL definition of the Uniforms struct.
// Matches GPUUniforms layout exactly (64 bytes).
//
//go:embed assets/uniforms.wgsl
var GPUUniformsSource string

// GPUUniforms is the uniform block bound at group 1 binding 0 of both vertex shaders.
type GPUUniforms struct {
	ViewProj [16]float32 // offset 0: column-major view-projection matrix (mat4x4<f32>)
}

// GPUUniformsSize is the byte size of the Uniforms block.
const GPUUniformsSize = 64

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUUniforms) Marshal() []byte {
	buf := make([]byte, GPUUniformsSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}

// Package shading evaluates the textured mesh programs on the CPU. Each function mirrors one
// WGSL entry point in engine/renderer/shader/assets and is used to check the host data
// layouts and matrix conventions without a GPU.
package shading

import (
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/camera"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
)

// Uniforms is the block bound at group 1 binding 0 of both vertex programs.
type Uniforms = camera.GPUUniforms

// VertexOutput is what both vertex programs hand to the rasterizer.
type VertexOutput struct {
	// Clip is the homogeneous clip-space position (@builtin(position)).
	Clip [4]float32
	// TexCoord is passed through unchanged at location 0.
	TexCoord [2]float32
}

var identityInstance = model.InstanceFromMatrix([16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
})

// StaticVertex evaluates vs_main of the static program:
// clip = view_proj * vec4(position, 1). Normal and tangent are ignored.
//
// Parameters:
//   - u: the bound uniform block
//   - v: the mesh vertex
//
// Returns:
//   - VertexOutput: clip position and texture coordinate
func StaticVertex(u Uniforms, v model.GPUVertex) VertexOutput {
	return InstancedVertex(u, v, identityInstance)
}

// InstancedVertex evaluates vs_main of the instanced program:
// clip = view_proj * mat4x4(r0, r1, r2, r3) * vec4(position, 1), where ri is column i.
//
// Parameters:
//   - u: the bound uniform block
//   - v: the mesh vertex; only position and texcoord are read
//   - inst: the per-instance transform rows
//
// Returns:
//   - VertexOutput: clip position and texture coordinate
func InstancedVertex(u Uniforms, v model.GPUVertex, inst model.GPUInstance) VertexOutput {
	transform := inst.Matrix()
	world := common.MulVec4(transform[:], [4]float32{v.Position[0], v.Position[1], v.Position[2], 1})
	return VertexOutput{
		Clip:     common.MulVec4(u.ViewProj[:], world),
		TexCoord: v.TexCoord,
	}
}

// Fragment evaluates fs_main: textureSample(t_diffuse, s_diffuse, tex_coord).
func Fragment(tex *common.TextureStagingData, s Sampler, uv [2]float32) [4]float32 {
	return s.Sample(tex, uv)
}

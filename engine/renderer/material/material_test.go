package material

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/common"
)

func TestDefaults(t *testing.T) {
	m := NewMaterial(WithName("plain"))
	if d := m.Diffuse(); d.Width != 1 || d.Height != 1 || d.Texel(0, 0) != [4]byte{255, 255, 255, 255} {
		t.Fatalf("diffuse = %+v, want one white texel", d)
	}
	if m.Sampler().MagFilter != wgpu.FilterModeLinear {
		t.Fatal("default sampler should filter linearly")
	}
}

func TestBindGroupProviderStagesTextureAndSampler(t *testing.T) {
	tex := &common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}
	smp := &common.SamplerStagingData{MagFilter: wgpu.FilterModeNearest}
	m := NewMaterial(WithName("bricks"), WithPipelineKey("textured_static"), WithDiffuse(tex), WithSampler(smp))

	if m.PipelineKey() != "textured_static" {
		t.Fatalf("pipeline key = %q", m.PipelineKey())
	}
	p := m.BindGroupProvider()
	if p.Label() != "material_bricks" {
		t.Fatalf("label = %q", p.Label())
	}
	if p.TextureStaging(DiffuseTextureBinding) != tex || p.SamplerStaging(DiffuseSamplerBinding) != smp {
		t.Fatal("texture and sampler should be staged at their bindings")
	}
	if m.BindGroupProvider() != p {
		t.Fatal("the provider should be created once")
	}
}

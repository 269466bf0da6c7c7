package shading

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/texture"
)

func randomMat(r *rand.Rand) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = r.Float32()*2 - 1
	}
	return m
}

func randomVertex(r *rand.Rand) model.GPUVertex {
	return model.GPUVertex{
		Position: [3]float32{r.Float32()*10 - 5, r.Float32()*10 - 5, r.Float32()*10 - 5},
		Normal:   [3]float32{0, 1, 0},
		TexCoord: [2]float32{r.Float32(), r.Float32()},
	}
}

func closeVec4(a [4]float32, b mgl32.Vec4, tol float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tol*(1+math.Abs(float64(b[i]))) {
			return false
		}
	}
	return true
}

func TestStaticVertexMatchesMatrixProduct(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		m := randomMat(r)
		v := randomVertex(r)
		out := StaticVertex(Uniforms{ViewProj: m}, v)

		want := m.Mul4x1(mgl32.Vec3(v.Position).Vec4(1))
		if !closeVec4(out.Clip, want, 1e-5) {
			t.Fatalf("case %d: clip = %v, want %v", i, out.Clip, want)
		}
		if out.TexCoord != v.TexCoord {
			t.Fatalf("case %d: texcoord %v changed to %v", i, v.TexCoord, out.TexCoord)
		}
	}
}

func TestInstancedVertexMatchesMatrixProduct(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		vp := randomMat(r)
		transform := randomMat(r)
		v := randomVertex(r)
		out := InstancedVertex(Uniforms{ViewProj: vp}, v, model.InstanceFromMatrix(transform))

		want := vp.Mul4(transform).Mul4x1(mgl32.Vec3(v.Position).Vec4(1))
		if !closeVec4(out.Clip, want, 1e-4) {
			t.Fatalf("case %d: clip = %v, want %v", i, out.Clip, want)
		}
		if out.TexCoord != v.TexCoord {
			t.Fatalf("case %d: texcoord %v changed to %v", i, v.TexCoord, out.TexCoord)
		}
	}
}

func TestInstanceRowsAreColumns(t *testing.T) {
	inst := model.GPUInstance{Rows: [4][4]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{3, -2, 7, 1},
	}}
	out := InstancedVertex(Uniforms{ViewProj: mgl32.Ident4()}, model.GPUVertex{Position: [3]float32{1, 1, 1}}, inst)
	if out.Clip != [4]float32{4, -1, 8, 1} {
		t.Fatalf("clip = %v, want the vertex translated by the last row", out.Clip)
	}
}

// testTexture is 4x2 with R = 60x, G = 100y, B = 10x + y.
func testTexture() *common.TextureStagingData {
	tex := &common.TextureStagingData{Width: 4, Height: 2, Pixels: make([]byte, 4*2*4)}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			i := (y*4 + x) * 4
			tex.Pixels[i] = byte(60 * x)
			tex.Pixels[i+1] = byte(100 * y)
			tex.Pixels[i+2] = byte(10*x + y)
			tex.Pixels[i+3] = 255
		}
	}
	return tex
}

func texelAt(x, y int) [4]float32 {
	return [4]float32{float32(60*x) / 255, float32(100*y) / 255, float32(10*x+y) / 255, 1}
}

func centre(x, y int) [2]float32 {
	return [2]float32{(float32(x) + 0.5) / 4, (float32(y) + 0.5) / 2}
}

func TestFragmentReproducesTexelsAtCentres(t *testing.T) {
	tex := testTexture()
	for _, s := range []Sampler{
		{},
		{MagFilter: wgpu.FilterModeNearest, AddressModeU: wgpu.AddressModeRepeat, AddressModeV: wgpu.AddressModeRepeat},
		{MagFilter: wgpu.FilterModeLinear},
	} {
		for y := 0; y < 2; y++ {
			for x := 0; x < 4; x++ {
				if got := Fragment(tex, s, centre(x, y)); got != texelAt(x, y) {
					t.Fatalf("sampler %+v texel (%d,%d) = %v, want %v", s, x, y, got, texelAt(x, y))
				}
			}
		}
	}
}

func TestWrapModes(t *testing.T) {
	tex := testTexture()
	for _, tt := range []struct {
		name  string
		mode  wgpu.AddressMode
		u     float32
		wantX int
	}{
		{"repeat past one", wgpu.AddressModeRepeat, 5.5 / 4, 1},
		{"repeat negative", wgpu.AddressModeRepeat, -0.5 / 4, 3},
		{"mirror past one", wgpu.AddressModeMirrorRepeat, 5.5 / 4, 2},
		{"mirror negative", wgpu.AddressModeMirrorRepeat, -0.5 / 4, 0},
		{"mirror second period", wgpu.AddressModeMirrorRepeat, 9.5 / 4, 1},
		{"clamp negative", wgpu.AddressModeClampToEdge, -3, 0},
		{"clamp past one", wgpu.AddressModeClampToEdge, 1, 3},
	} {
		t.Run(tt.name, func(t *testing.T) {
			s := Sampler{AddressModeU: tt.mode, MagFilter: wgpu.FilterModeNearest}
			if got := s.Sample(tex, [2]float32{tt.u, 0.25}); got != texelAt(tt.wantX, 0) {
				t.Fatalf("u=%v sampled %v, want texel %d", tt.u, got, tt.wantX)
			}
		})
	}
}

func TestLinearFilterBlendsNeighbours(t *testing.T) {
	tex := testTexture()
	s := Sampler{MagFilter: wgpu.FilterModeLinear}

	// Halfway between the centres of texels 0 and 1 on row 0.
	got := s.Sample(tex, [2]float32{0.25, 0.25})
	want := [4]float32{30.0 / 255, 0, 5.0 / 255, 1}
	for c := range got {
		if math.Abs(float64(got[c]-want[c])) > 1e-6 {
			t.Fatalf("channel %d = %v, want %v", c, got[c], want[c])
		}
	}

	// At the centre of the texture the four middle texels contribute equally.
	got = s.Sample(tex, [2]float32{0.5, 0.5})
	want = [4]float32{90.0 / 255, 50.0 / 255, 15.5 / 255, 1}
	for c := range got {
		if math.Abs(float64(got[c]-want[c])) > 1e-6 {
			t.Fatalf("centre channel %d = %v, want %v", c, got[c], want[c])
		}
	}
}

func TestSamplerFromStaging(t *testing.T) {
	def := texture.DefaultSampler()
	want := Sampler{AddressModeU: def.AddressModeU, AddressModeV: def.AddressModeV, MagFilter: def.MagFilter}
	if s := SamplerFromStaging(nil); s != want {
		t.Fatalf("nil staging produced %+v, want the default sampler %+v", s, want)
	}
	zero := SamplerFromStaging(&common.SamplerStagingData{})
	if zero != (Sampler{}) {
		t.Fatalf("zero staging produced %+v, want the zero sampler", zero)
	}
	s := SamplerFromStaging(&common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeMirrorRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeNearest,
	})
	if s.AddressModeU != wgpu.AddressModeRepeat || s.AddressModeV != wgpu.AddressModeMirrorRepeat || s.MagFilter != wgpu.FilterModeLinear {
		t.Fatalf("sampler = %+v", s)
	}
}

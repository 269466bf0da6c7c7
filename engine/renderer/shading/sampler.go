package shading

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/texture"
)

// Sampler is the CPU counterpart of a non-mipmapped filtering sampler. Address modes other than
// repeat and mirror-repeat clamp to the edge, and any filter other than linear is nearest.
// The zero Sampler repeats and filters nearest, like a GPU sampler created from zero staging.
//
// Without derivatives the sampled level of detail is always 0, so only MagFilter applies.
type Sampler struct {
	AddressModeU, AddressModeV wgpu.AddressMode
	MagFilter                  wgpu.FilterMode
}

// SamplerFromStaging builds a Sampler from the descriptor staged on a texture provider.
// A nil descriptor means texture.DefaultSampler, as it does for materials.
//
// Parameters:
//   - s: the staged sampler configuration, may be nil
//
// Returns:
//   - Sampler: the equivalent CPU sampler
func SamplerFromStaging(s *common.SamplerStagingData) Sampler {
	if s == nil {
		s = texture.DefaultSampler()
	}
	return Sampler{
		AddressModeU: s.AddressModeU,
		AddressModeV: s.AddressModeV,
		MagFilter:    s.MagFilter,
	}
}

// Sample returns the filtered texel at uv as unorm values in [0, 1].
//
// Parameters:
//   - tex: the RGBA8 texture
//   - uv: the texture coordinate, (0,0) at the top-left texel corner
//
// Returns:
//   - [4]float32: the RGBA result
func (s Sampler) Sample(tex *common.TextureStagingData, uv [2]float32) [4]float32 {
	w, h := int(tex.Width), int(tex.Height)
	x := float64(uv[0]) * float64(w)
	y := float64(uv[1]) * float64(h)

	if s.MagFilter != wgpu.FilterModeLinear {
		return texel(tex,
			wrap(int(math.Floor(x)), w, s.AddressModeU),
			wrap(int(math.Floor(y)), h, s.AddressModeV))
	}

	// Bilinear over texel centres.
	x -= 0.5
	y -= 0.5
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := float32(x-x0), float32(y-y0)
	ix0, iy0 := int(x0), int(y0)
	u0, u1 := wrap(ix0, w, s.AddressModeU), wrap(ix0+1, w, s.AddressModeU)
	v0, v1 := wrap(iy0, h, s.AddressModeV), wrap(iy0+1, h, s.AddressModeV)

	t00, t10 := texel(tex, u0, v0), texel(tex, u1, v0)
	t01, t11 := texel(tex, u0, v1), texel(tex, u1, v1)
	var out [4]float32
	for c := range out {
		top := t00[c] + (t10[c]-t00[c])*fx
		bottom := t01[c] + (t11[c]-t01[c])*fx
		out[c] = top + (bottom-top)*fy
	}
	return out
}

func texel(tex *common.TextureStagingData, x, y int) [4]float32 {
	b := tex.Texel(uint32(x), uint32(y))
	return [4]float32{
		float32(b[0]) / 255,
		float32(b[1]) / 255,
		float32(b[2]) / 255,
		float32(b[3]) / 255,
	}
}

// wrap resolves an integer texel coordinate into [0, n) with the given address mode.
func wrap(i, n int, mode wgpu.AddressMode) int {
	switch mode {
	case wgpu.AddressModeRepeat:
		return ((i % n) + n) % n
	case wgpu.AddressModeMirrorRepeat:
		period := 2 * n
		m := ((i % period) + period) % period
		if m >= n {
			m = period - 1 - m
		}
		return m
	}
	return min(max(i, 0), n-1)
}

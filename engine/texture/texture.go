// Package texture produces the RGBA staging data and sampler descriptors bound to the
// diffuse texture provider.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/common"
)

// Decode decodes a PNG or JPEG stream into tightly packed RGBA8 staging data.
//
// Parameters:
//   - r: the encoded image
//
// Returns:
//   - *common.TextureStagingData: the decoded texels
//   - error: error if decoding fails
func Decode(r io.Reader) (*common.TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture: %w", err)
	}
	return FromImage(img), nil
}

// Load opens and decodes a texture file from disk.
//
// Parameters:
//   - path: a PNG or JPEG file
//
// Returns:
//   - *common.TextureStagingData: the decoded texels
//   - error: error if the file cannot be opened or decoded
func Load(path string) (*common.TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	data, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// FromImage converts any image to RGBA8 staging data with its origin at the top-left texel.
func FromImage(img image.Image) *common.TextureStagingData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// Checkerboard builds a square texture of cells x cells alternating squares, starting with a
// in the top-left corner. It is the fallback when no texture file is configured.
//
// Parameters:
//   - size: edge length in texels
//   - cells: number of squares along each edge
//   - a, b: the two square colours
//
// Returns:
//   - *common.TextureStagingData: the generated texels
func Checkerboard(size, cells uint32, a, b color.RGBA) *common.TextureStagingData {
	cells = max(cells, 1)
	size = max(size, cells)
	cell := size / cells

	data := &common.TextureStagingData{
		Pixels: make([]byte, size*size*4),
		Width:  size,
		Height: size,
	}
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			i := (y*size + x) * 4
			data.Pixels[i], data.Pixels[i+1], data.Pixels[i+2], data.Pixels[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return data
}

// DefaultSampler returns the sampler used for diffuse textures: repeat addressing with
// linear filtering.
func DefaultSampler() *common.SamplerStagingData {
	return &common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// ParseAddressMode maps a configuration name to a wgpu address mode.
//
// Parameters:
//   - name: "repeat", "mirror-repeat" or "clamp-to-edge"
//
// Returns:
//   - wgpu.AddressMode: the address mode
//   - error: error for unknown names
func ParseAddressMode(name string) (wgpu.AddressMode, error) {
	switch name {
	case "repeat":
		return wgpu.AddressModeRepeat, nil
	case "mirror-repeat":
		return wgpu.AddressModeMirrorRepeat, nil
	case "clamp-to-edge":
		return wgpu.AddressModeClampToEdge, nil
	}
	return 0, fmt.Errorf("unknown address mode %q", name)
}

// ParseFilterMode maps a configuration name to a wgpu filter mode.
//
// Parameters:
//   - name: "nearest" or "linear"
//
// Returns:
//   - wgpu.FilterMode: the filter mode
//   - error: error for unknown names
func ParseFilterMode(name string) (wgpu.FilterMode, error) {
	switch name {
	case "nearest":
		return wgpu.FilterModeNearest, nil
	case "linear":
		return wgpu.FilterModeLinear, nil
	}
	return 0, fmt.Errorf("unknown filter mode %q", name)
}

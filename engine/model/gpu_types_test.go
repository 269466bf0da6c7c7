package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func floatAt(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestVertexMarshalMatchesLayout(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		Tangent:  [3]float32{1, 0, 0},
		TexCoord: [2]float32{0.25, 0.75},
	}
	if v.Size() != GPUVertexSize {
		t.Fatalf("GPUVertex size = %d, want %d", v.Size(), GPUVertexSize)
	}

	buf := v.Marshal()
	layout := StaticVertexLayout()
	if layout.ArrayStride != uint64(len(buf)) {
		t.Fatalf("stride %d does not match marshalled size %d", layout.ArrayStride, len(buf))
	}
	want := map[uint32]float32{0: 1, 1: 0, 2: 1, 3: 0.25}
	for _, attr := range layout.Attributes {
		if got := floatAt(buf, int(attr.Offset)); got != want[attr.ShaderLocation] {
			t.Fatalf("location %d first component = %v, want %v", attr.ShaderLocation, got, want[attr.ShaderLocation])
		}
	}
}

func TestInstancedLayouts(t *testing.T) {
	layouts := InstancedVertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("got %d layouts, want 2", len(layouts))
	}
	if layouts[0].StepMode != wgpu.VertexStepModeVertex || layouts[0].ArrayStride != GPUVertexSize {
		t.Fatalf("mesh slot = %+v", layouts[0])
	}
	if layouts[1].StepMode != wgpu.VertexStepModeInstance || layouts[1].ArrayStride != GPUInstanceSize {
		t.Fatalf("instance slot = %+v", layouts[1])
	}
	for i, attr := range layouts[1].Attributes {
		if attr.ShaderLocation != uint32(5+i) || attr.Offset != uint64(16*i) {
			t.Fatalf("instance attribute %d = %+v", i, attr)
		}
	}
	// The texcoord read by the instanced pipeline is the one the static layout uses.
	if layouts[0].Attributes[1].Offset != StaticVertexLayout().Attributes[3].Offset {
		t.Fatalf("instanced texcoord offset %d differs from static", layouts[0].Attributes[1].Offset)
	}
}

func TestInstanceColumns(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	inst := InstanceFromMatrix(m)
	if inst.Size() != GPUInstanceSize {
		t.Fatalf("GPUInstance size = %d, want %d", inst.Size(), GPUInstanceSize)
	}
	// Column 3 holds the translation of a column-major matrix.
	if inst.Rows[3] != [4]float32{12, 13, 14, 15} {
		t.Fatalf("Rows[3] = %v, want translation column", inst.Rows[3])
	}

	buf := MarshalInstances(nil, []GPUInstance{inst, inst})
	if len(buf) != 2*GPUInstanceSize {
		t.Fatalf("marshalled %d bytes, want %d", len(buf), 2*GPUInstanceSize)
	}
	for i := range 16 {
		if got := floatAt(buf, GPUInstanceSize+i*4); got != m[i] {
			t.Fatalf("second instance float %d = %v, want %v", i, got, m[i])
		}
	}

	reused := MarshalInstances(buf, []GPUInstance{inst})
	if len(reused) != GPUInstanceSize || &reused[0] != &buf[0] {
		t.Fatal("MarshalInstances did not reuse the destination buffer")
	}
}

package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func nearlyEqual(t *testing.T, name string, got []float32, want mgl32.Mat4) {
	t.Helper()
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Fatalf("%s[%d] = %v, want %v\ngot  %v\nwant %v", name, i, got[i], want[i], got, want)
		}
	}
}

func TestMul4MatchesMathgl(t *testing.T) {
	a := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.4))
	b := mgl32.Scale3D(2, 3, 4).Mul4(mgl32.HomogRotate3DX(-0.7))
	out := make([]float32, 16)
	Mul4(out, a[:], b[:])
	nearlyEqual(t, "a*b", out, a.Mul4(b))

	// out may alias an operand.
	c := a
	Mul4(c[:], c[:], b[:])
	nearlyEqual(t, "aliased", c[:], a.Mul4(b))
}

func TestPerspectiveIsRemappedGL(t *testing.T) {
	fov, aspect, near, far := float32(math.Pi/3), float32(16.0/9.0), float32(0.1), float32(100)

	gl := make([]float32, 16)
	PerspectiveGL(gl, fov, aspect, near, far)
	nearlyEqual(t, "gl", gl, mgl32.Perspective(fov, aspect, near, far))

	remap := mgl32.Mat4(OpenGLToWGPU)
	want := remap.Mul4(mgl32.Perspective(fov, aspect, near, far))
	out := make([]float32, 16)
	Perspective(out, fov, aspect, near, far)
	nearlyEqual(t, "wgpu", out, want)

	for _, tc := range []struct {
		depth, ndc float32
	}{{near, 0}, {far, 1}} {
		clip := MulVec4(out, [4]float32{0, 0, -tc.depth, 1})
		if z := clip[2] / clip[3]; math.Abs(float64(z-tc.ndc)) > 1e-4 {
			t.Fatalf("depth %v maps to %v, want %v", tc.depth, z, tc.ndc)
		}
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	eye, center, up := [3]float32{3, 4, -5}, [3]float32{0, 1, 2}, [3]float32{0, 1, 0}
	out := make([]float32, 16)
	LookAt(out, eye, center, up)
	nearlyEqual(t, "view", out, mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up)))
}

func TestBuildModelMatrixOrder(t *testing.T) {
	pos, rot, scale := [3]float32{1, -2, 3}, [3]float32{0.3, 1.1, -0.6}, [3]float32{2, 0.5, 1.5}
	want := mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(mgl32.HomogRotate3DY(rot[1])).
		Mul4(mgl32.HomogRotate3DX(rot[0])).
		Mul4(mgl32.HomogRotate3DZ(rot[2])).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))

	out := make([]float32, 16)
	BuildModelMatrix(out, pos, rot, scale)
	nearlyEqual(t, "model", out, want)
}

func TestFrustumContainsSphere(t *testing.T) {
	proj, view, vp := make([]float32, 16), make([]float32, 16), make([]float32, 16)
	Perspective(proj, float32(math.Pi/2), 1, 0.1, 50)
	LookAt(view, [3]float32{0, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0})
	Mul4(vp, proj, view)
	f := ExtractFrustumFromMatrix(vp)

	tests := []struct {
		name   string
		center [3]float32
		radius float32
		want   bool
	}{
		{"ahead", [3]float32{0, 0, 10}, 1, true},
		{"behind", [3]float32{0, 0, -10}, 1, false},
		{"beyond far", [3]float32{0, 0, 60}, 1, false},
		{"straddles far", [3]float32{0, 0, 50.5}, 1, true},
		{"off to the side", [3]float32{30, 0, 10}, 1, false},
		{"touching the side", [3]float32{10.5, 0, 10}, 1, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsSphere(tc.center, tc.radius); got != tc.want {
				t.Fatalf("ContainsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.want)
			}
		})
	}
}

func TestNormalize3Zero(t *testing.T) {
	if got := Normalize3([3]float32{}); got != ([3]float32{}) {
		t.Fatalf("Normalize3(0) = %v", got)
	}
	if got := Normalize3([3]float32{0, 3, 4}); math.Abs(float64(Dot3(got, got)-1)) > 1e-6 {
		t.Fatalf("Normalize3 length = %v", Dot3(got, got))
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "b", "c"); got != "b" {
		t.Fatalf("Coalesce = %q", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Fatalf("Coalesce = %d", got)
	}
}

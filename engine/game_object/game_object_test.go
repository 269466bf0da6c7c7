package game_object

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaults(t *testing.T) {
	g := NewGameObject()
	if !g.Enabled() {
		t.Fatal("new objects should be enabled")
	}
	if sx, sy, sz := g.Scale(); sx != 1 || sy != 1 || sz != 1 {
		t.Fatalf("scale = (%v,%v,%v), want unit", sx, sy, sz)
	}
	if got := mgl32.Mat4(g.ModelMatrix()); !got.ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("model matrix = %v, want identity", got)
	}
}

func TestModelMatrixMatchesComposition(t *testing.T) {
	g := NewGameObject(
		WithPosition(1, -2, 3),
		WithRotation(0.3, -1.1, 0.7),
		WithScale(2, 0.5, 1.5),
	)
	want := mgl32.Translate3D(1, -2, 3).
		Mul4(mgl32.HomogRotate3DY(-1.1)).
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.HomogRotate3DZ(0.7)).
		Mul4(mgl32.Scale3D(2, 0.5, 1.5))
	got := mgl32.Mat4(g.ModelMatrix())
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("model matrix = %v, want %v", got, want)
	}

	inst := g.Instance()
	if inst.Rows[3] != [4]float32{1, -2, 3, 1} {
		t.Fatalf("translation column = %v", inst.Rows[3])
	}
}

func TestAdvanceSpins(t *testing.T) {
	g := NewGameObject(WithRotationSpeed(0, math.Pi, 0))
	g.Advance(0.5)
	g.Advance(0.5)
	if _, ry, _ := g.Rotation(); math.Abs(float64(ry)-math.Pi) > 1e-6 {
		t.Fatalf("rotation y = %v, want pi", ry)
	}
	// Half a turn about Y sends +X to -X.
	m := mgl32.Mat4(g.ModelMatrix())
	if got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}); !got.ApproxEqualThreshold(mgl32.Vec4{-1, 0, 0, 1}, 1e-6) {
		t.Fatalf("rotated +X = %v", got)
	}
}

func TestSetters(t *testing.T) {
	g := NewGameObject(WithID(7), WithEnabled(false), WithUniformScale(3))
	if g.ID() != 7 || g.Enabled() {
		t.Fatalf("id %d enabled %v", g.ID(), g.Enabled())
	}
	g.SetID(9)
	g.SetEnabled(true)
	g.SetPosition(4, 5, 6)
	g.SetScale(1, 2, 3)
	g.SetRotation(0.1, 0.2, 0.3)
	g.SetRotationSpeed(1, 0, 0)

	pos, scale, rot, speed := g.TransformData()
	if g.ID() != 9 || !g.Enabled() || pos != [3]float32{4, 5, 6} || scale != [3]float32{1, 2, 3} ||
		rot != [3]float32{0.1, 0.2, 0.3} || speed != [3]float32{1, 0, 0} {
		t.Fatalf("transform = %v %v %v %v", pos, scale, rot, speed)
	}
}

package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/input"
)

const eps = 1e-4

func near3(a, b [3]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}

func project(m [16]float32, p [3]float32) [4]float32 {
	return common.MulVec4(m[:], [4]float32{p[0], p[1], p[2], 1})
}

func TestDefaultProjectionMatchesOracle(t *testing.T) {
	c := NewCamera()
	want := mgl32.Mat4(common.OpenGLToWGPU).Mul4(mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100))
	got := c.ProjectionMatrix()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > eps {
			t.Fatalf("projection[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDepthRange(t *testing.T) {
	c := NewCamera(WithLens(60, 16.0/9.0, 0.5, 50))
	vp := c.ViewProjectionMatrix()

	for _, tt := range []struct {
		z     float32
		depth float32
	}{
		{0.5, 0},
		{50, 1},
	} {
		clip := project(vp, [3]float32{0, 0, tt.z})
		if clip[3] <= 0 {
			t.Fatalf("point at z=%v is behind the camera (w=%v)", tt.z, clip[3])
		}
		if d := clip[2] / clip[3]; math.Abs(float64(d-tt.depth)) > eps {
			t.Fatalf("depth at z=%v = %v, want %v", tt.z, d, tt.depth)
		}
	}
}

func TestLooksDownPositiveZ(t *testing.T) {
	c := NewCamera()
	vp := c.ViewProjectionMatrix()

	ahead := project(vp, [3]float32{0, 0, 5})
	if ahead[3] <= 0 || ahead[0] != 0 || ahead[1] != 0 {
		t.Fatalf("point ahead projects to %v, want centered with positive w", ahead)
	}
	right := project(vp, [3]float32{1, 0, 5})
	if right[0]/right[3] <= 0 {
		t.Fatalf("+X point lands at ndc x %v, want right of center", right[0]/right[3])
	}
	up := project(vp, [3]float32{0, 1, 5})
	if up[1]/up[3] <= 0 {
		t.Fatalf("+Y point lands at ndc y %v, want above center", up[1]/up[3])
	}
}

func TestWalkAndStrafe(t *testing.T) {
	c := NewCamera()
	c.Walk(2)
	if got := c.Position(); !near3(got, [3]float32{0, 0, 2}) {
		t.Fatalf("after Walk(2) position = %v", got)
	}
	c.Strafe(-1)
	if got := c.Position(); !near3(got, [3]float32{-1, 0, 2}) {
		t.Fatalf("after Strafe(-1) position = %v", got)
	}
}

func TestRotateYTurnsForwardTowardPositiveX(t *testing.T) {
	c := NewCamera()
	c.RotateY(90)
	if got := c.Forward(); !near3(got, [3]float32{1, 0, 0}) {
		t.Fatalf("forward = %v, want +X", got)
	}
	if got := c.Right(); !near3(got, [3]float32{0, 0, -1}) {
		t.Fatalf("right = %v, want -Z", got)
	}
	c.Walk(3)
	if got := c.Position(); !near3(got, [3]float32{3, 0, 0}) {
		t.Fatalf("position = %v, want (3,0,0)", got)
	}
}

func TestPitchIsPreMultiplied(t *testing.T) {
	c := NewCamera()
	c.Pitch(90)
	if got := c.Forward(); !near3(got, [3]float32{0, -1, 0}) {
		t.Fatalf("forward after Pitch(90) = %v, want -Y", got)
	}

	// Pitch about the world X axis after a yaw tilts the already-turned forward vector.
	c = NewCamera()
	c.RotateY(90)
	c.Pitch(30)
	want := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{1, 0, 0}).
		Mul(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})).
		Rotate(mgl32.Vec3{0, 0, 1})
	if got := c.Forward(); !near3(got, want) {
		t.Fatalf("forward = %v, want %v", got, want)
	}
}

func TestViewIsInverseOfWorldTransform(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3), WithYawPitch(30, 10))
	view := mgl32.Mat4(c.ViewMatrix())

	rot := c.Rotation()
	world := mgl32.Translate3D(1, 2, 3).Mul4(rot.Mat4())
	got := flipZ.Mul4(view).Mul4(world)
	if !got.ApproxEqualThreshold(mgl32.Ident4(), eps) {
		t.Fatalf("flipZ * view * world = %v, want identity", got)
	}
}

func TestUpdateFlyMode(t *testing.T) {
	ctrl := input.NewController(2)
	c := NewCamera()

	ctrl.HandleKey(common.KeyW, true)
	ctrl.UpdateAll(0.5, c)
	if got := c.Position(); !near3(got, [3]float32{0, 0, 1}) {
		t.Fatalf("after walking position = %v, want (0,0,1)", got)
	}
	ctrl.HandleKey(common.KeyW, false)

	ctrl.HandleKey(common.KeyA, true)
	ctrl.UpdateAll(0.5, c)
	if got := c.Position(); !near3(got, [3]float32{-1, 0, 1}) {
		t.Fatalf("after strafing left position = %v, want (-1,0,1)", got)
	}
	ctrl.HandleKey(common.KeyA, false)
}

func TestUpdateDragRotates(t *testing.T) {
	ctrl := input.NewController(1)
	c := NewCamera(WithSensitivity(0.5))

	ctrl.HandleCursor(100, 100)
	ctrl.HandleMouseButton(common.MouseButtonLeft, true)
	ctrl.HandleCursor(280, 100)
	ctrl.UpdateAll(0.016, c)

	if got := c.Forward(); !near3(got, [3]float32{1, 0, 0}) {
		t.Fatalf("forward after a 180px drag at 0.5 deg/px = %v, want +X", got)
	}

	// Without the button held the cursor does not rotate the camera.
	ctrl.HandleMouseButton(common.MouseButtonLeft, false)
	ctrl.HandleCursor(0, 0)
	ctrl.UpdateAll(0.016, c)
	if got := c.Forward(); !near3(got, [3]float32{1, 0, 0}) {
		t.Fatalf("forward changed without drag: %v", got)
	}
}

func TestOrbitControllerDrivesView(t *testing.T) {
	orbit := NewOrbitController(WithRadius(5), WithAngles(0, 0))
	c := NewCamera(WithController(orbit))

	if x, y, z := orbit.Position(); !near3([3]float32{x, y, z}, [3]float32{0, 0, 5}) {
		t.Fatalf("orbit position = (%v,%v,%v), want (0,0,5)", x, y, z)
	}
	clip := project(c.ViewProjectionMatrix(), [3]float32{0, 0, 0})
	if clip[3] <= 0 {
		t.Fatalf("target is behind the orbit camera: %v", clip)
	}
	if math.Abs(float64(clip[0])) > eps || math.Abs(float64(clip[1])) > eps {
		t.Fatalf("target not centered: %v", clip)
	}

	ctrl := input.NewController(2)
	ctrl.HandleKey(common.KeyUp, true)
	ctrl.UpdateAll(1, c)
	if got := orbit.Radius(); math.Abs(float64(got-3)) > eps {
		t.Fatalf("radius after zoom = %v, want 3", got)
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	orbit := NewOrbitController()
	orbit.Orbit(0, 10)
	if got := orbit.Elevation(); got >= math.Pi/2 {
		t.Fatalf("elevation %v not clamped below pi/2", got)
	}
}

func TestUniformsMarshal(t *testing.T) {
	c := NewCamera(WithPosition(0, 1, -4))
	u := c.Uniforms()
	buf := u.Marshal()
	if len(buf) != GPUUniformsSize || u.Size() != GPUUniformsSize {
		t.Fatalf("uniform size = %d/%d, want %d", len(buf), u.Size(), GPUUniformsSize)
	}
	vp := c.ViewProjectionMatrix()
	for i := range 16 {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])); got != vp[i] {
			t.Fatalf("uniform float %d = %v, want %v", i, got, vp[i])
		}
	}
}

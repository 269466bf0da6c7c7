package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/input"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
)

// cameraCount is used to generate unique bind group provider labels.
var cameraCount atomic.Uint64

// flipZ turns the camera's +Z forward axis into the -Z axis the right-handed projection looks down.
var flipZ = mgl32.Scale3D(1, 1, -1)

type cameraImpl struct {
	mu sync.Mutex

	position mgl32.Vec3
	rotation mgl32.Quat

	fovY   float32 // degrees
	aspect float32
	near   float32
	far    float32

	// sensitivity is the rotation in degrees per pixel of cursor drag.
	sensitivity float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller        OrbitController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a first-person camera made of a translation and an orientation quaternion.
// It looks down its local +Z axis with +X to the right and +Y up. The projection maps
// view depth to the WebGPU [0, 1] range. When an OrbitController is attached the view
// is taken from the controller's look-at instead.
type Camera interface {
	input.Updatable

	// Position returns the camera position in world space.
	Position() [3]float32

	// SetPosition moves the camera.
	SetPosition(p [3]float32)

	// Rotation returns the camera orientation.
	Rotation() mgl32.Quat

	// SetRotation replaces the camera orientation. The quaternion is normalized.
	SetRotation(q mgl32.Quat)

	// Forward returns the camera's +Z axis in world space.
	Forward() [3]float32

	// Right returns the camera's +X axis in world space.
	Right() [3]float32

	// Walk moves the camera along Forward.
	//
	// Parameters:
	//   - distance: world units, negative moves backward
	Walk(distance float32)

	// Strafe moves the camera along Right.
	//
	// Parameters:
	//   - distance: world units, negative moves left
	Strafe(distance float32)

	// RotateY rotates the camera about the world Y axis.
	//
	// Parameters:
	//   - degrees: the angle; positive turns Forward toward +X
	RotateY(degrees float32)

	// Pitch rotates the camera about the world X axis.
	//
	// Parameters:
	//   - degrees: the angle; positive tips Forward toward -Y
	Pitch(degrees float32)

	// Fov returns the vertical field of view in degrees.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clip distance.
	Near() float32

	// Far returns the far clip distance.
	Far() float32

	// SetLens replaces the projection.
	//
	// Parameters:
	//   - fovY: vertical field of view in degrees
	//   - aspect: width / height
	//   - near, far: clip distances (0 < near < far)
	SetLens(fovY, aspect, near, far float32)

	// SetAspect changes only the aspect ratio, typically on window resize.
	SetAspect(aspect float32)

	// Sensitivity returns the drag rotation in degrees per pixel.
	Sensitivity() float32

	// ViewMatrix returns the column-major view matrix.
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the column-major projection matrix.
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() [16]float32

	// Uniforms returns the uniform block for the current view-projection.
	Uniforms() GPUUniforms

	// Controller returns the attached OrbitController, or nil in fly mode.
	Controller() OrbitController

	// SetController attaches an OrbitController, or detaches it with nil.
	SetController(ctrl OrbitController)

	// BindGroupProvider returns the provider owning the uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin looking down +Z with a 45 degree field of view,
// aspect 1 and clip planes at 0.1 and 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		rotation:    mgl32.QuatIdent(),
		fovY:        45,
		aspect:      1,
		near:        0.1,
		far:         100,
		sensitivity: 0.25,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.updateMatrices()
}

func (c *cameraImpl) Rotation() mgl32.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) SetRotation(q mgl32.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = q.Normalize()
	c.updateMatrices()
}

func (c *cameraImpl) Forward() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation.Rotate(mgl32.Vec3{0, 0, 1})
}

func (c *cameraImpl) Right() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (c *cameraImpl) Walk(distance float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(c.rotation.Rotate(mgl32.Vec3{0, 0, 1}).Mul(distance))
	c.updateMatrices()
}

func (c *cameraImpl) Strafe(distance float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(c.rotation.Rotate(mgl32.Vec3{1, 0, 0}).Mul(distance))
	c.updateMatrices()
}

func (c *cameraImpl) RotateY(degrees float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = mgl32.QuatRotate(mgl32.DegToRad(degrees), mgl32.Vec3{0, 1, 0}).Mul(c.rotation).Normalize()
	c.updateMatrices()
}

func (c *cameraImpl) Pitch(degrees float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = mgl32.QuatRotate(mgl32.DegToRad(degrees), mgl32.Vec3{1, 0, 0}).Mul(c.rotation).Normalize()
	c.updateMatrices()
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovY
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetLens(fovY, aspect, near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fovY, c.aspect, c.near, c.far = fovY, aspect, near, far
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Sensitivity() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sensitivity
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniforms() GPUUniforms {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUUniforms{ViewProj: c.viewProjectionMatrix}
}

func (c *cameraImpl) Controller() OrbitController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl OrbitController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

// Update applies one frame of input. In fly mode up/down walk, left/right strafe and a
// left-drag turns the camera. With an OrbitController attached the input goes to the
// controller and the camera follows it.
func (c *cameraImpl) Update(ctrl input.Controller, dt float32) {
	if orbit := c.Controller(); orbit != nil {
		orbit.Update(ctrl, dt)
		c.mu.Lock()
		c.updateMatrices()
		c.mu.Unlock()
		return
	}

	step := ctrl.Speed() * dt
	if ctrl.Up() {
		c.Walk(step)
	}
	if ctrl.Down() {
		c.Walk(-step)
	}
	if ctrl.Left() {
		c.Strafe(-step)
	}
	if ctrl.Right() {
		c.Strafe(step)
	}
	if ctrl.Dragged() {
		dx, dy := ctrl.CursorDelta()
		s := c.Sensitivity()
		if dx != 0 {
			c.RotateY(dx * s)
		}
		if dy != 0 {
			c.Pitch(dy * s)
		}
	}
}

// updateMatrices recomputes view, projection and view-projection. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller != nil {
		px, py, pz := c.controller.Position()
		tx, ty, tz := c.controller.Target()
		common.LookAt(c.viewMatrix[:], [3]float32{px, py, pz}, [3]float32{tx, ty, tz}, [3]float32{0, 1, 0})
	} else {
		inverse := c.rotation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-c.position[0], -c.position[1], -c.position[2]))
		c.viewMatrix = flipZ.Mul4(inverse)
	}
	common.Perspective(c.projectionMatrix[:], mgl32.DegToRad(c.fovY), c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

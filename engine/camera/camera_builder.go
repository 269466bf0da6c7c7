package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial camera position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl32.Vec3{x, y, z}
	}
}

// WithYawPitch sets the initial orientation as a turn about Y followed by a tilt about X,
// both in degrees, matching a RotateY then Pitch call sequence.
//
// Parameters:
//   - yaw: degrees about the world Y axis
//   - pitch: degrees about the world X axis
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera orientation
func WithYawPitch(yaw, pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		qy := mgl32.QuatRotate(mgl32.DegToRad(yaw), mgl32.Vec3{0, 1, 0})
		qx := mgl32.QuatRotate(mgl32.DegToRad(pitch), mgl32.Vec3{1, 0, 0})
		c.rotation = qx.Mul(qy).Normalize()
	}
}

// WithLens sets the projection parameters.
//
// Parameters:
//   - fovY: vertical field of view in degrees
//   - aspect: width / height
//   - near, far: clip distances
//
// Returns:
//   - CameraBuilderOption: a function that sets the lens
func WithLens(fovY, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fovY, c.aspect, c.near, c.far = fovY, aspect, near, far
	}
}

// WithSensitivity sets the drag rotation in degrees per pixel.
//
// Parameters:
//   - degreesPerPixel: rotation per pixel of cursor movement while dragging
//
// Returns:
//   - CameraBuilderOption: a function that sets the sensitivity
func WithSensitivity(degreesPerPixel float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.sensitivity = degreesPerPixel
	}
}

// WithController attaches an orbit controller. The camera then looks from the controller's
// position at its target and forwards input to it.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl OrbitController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

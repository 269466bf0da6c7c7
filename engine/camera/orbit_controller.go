package camera

import (
	"math"
	"sync"

	"github.com/mjm114514/personal-wgpu-demos/engine/input"
)

// OrbitController keeps a camera position on a sphere around a target using
// radius, azimuth and elevation. It is an alternative to fly mode for inspecting a
// single model.
type OrbitController interface {
	input.Updatable

	// Position returns the world-space eye position.
	Position() (x, y, z float32)

	// Target returns the look-at point.
	Target() (x, y, z float32)

	// SetTarget moves the pivot point and recomputes the position.
	SetTarget(x, y, z float32)

	// Orbit rotates around the target.
	//
	// Parameters:
	//   - dAzimuth: radians about the Y axis
	//   - dElevation: radians up from the horizontal plane, clamped to the bounds
	Orbit(dAzimuth, dElevation float32)

	// Zoom moves toward the target. Positive delta moves closer.
	//
	// Parameters:
	//   - delta: world units, clamped to the radius bounds
	Zoom(delta float32)

	// Radius returns the distance from the target.
	Radius() float32

	// Azimuth returns the horizontal angle in radians, 0 on the +Z axis.
	Azimuth() float32

	// Elevation returns the vertical angle in radians.
	Elevation() float32
}

type orbitControllerImpl struct {
	mu sync.Mutex

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// orbitSpeed is radians per second while a direction key is held.
	orbitSpeed float32
	// mouseSensitivity is radians per pixel of drag.
	mouseSensitivity float32
}

var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates an OrbitController.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) OrbitController {
	oc := &orbitControllerImpl{
		radius:           10,
		elevation:        float32(math.Pi / 6),
		minRadius:        1,
		maxRadius:        100,
		minElevation:     float32(-math.Pi/2 + 0.05),
		maxElevation:     float32(math.Pi/2 - 0.05),
		orbitSpeed:       1.5,
		mouseSensitivity: 0.005,
	}
	for _, option := range options {
		option(oc)
	}
	oc.clamp()
	oc.updatePosition()
	return oc
}

// updatePosition recomputes the eye from the spherical coordinates. Caller must hold the mutex.
func (oc *orbitControllerImpl) updatePosition() {
	sinElev, cosElev := math.Sincos(float64(oc.elevation))
	sinAzim, cosAzim := math.Sincos(float64(oc.azimuth))

	oc.position[0] = oc.target[0] + oc.radius*float32(cosElev*sinAzim)
	oc.position[1] = oc.target[1] + oc.radius*float32(sinElev)
	oc.position[2] = oc.target[2] + oc.radius*float32(cosElev*cosAzim)
}

func (oc *orbitControllerImpl) clamp() {
	oc.radius = min(max(oc.radius, oc.minRadius), oc.maxRadius)
	oc.elevation = min(max(oc.elevation, oc.minElevation), oc.maxElevation)
}

func (oc *orbitControllerImpl) Position() (x, y, z float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.position[0], oc.position[1], oc.position[2]
}

func (oc *orbitControllerImpl) Target() (x, y, z float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target[0], oc.target[1], oc.target[2]
}

func (oc *orbitControllerImpl) SetTarget(x, y, z float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = [3]float32{x, y, z}
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Orbit(dAzimuth, dElevation float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth += dAzimuth
	oc.elevation += dElevation
	oc.clamp()
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius -= delta
	oc.clamp()
	oc.updatePosition()
}

func (oc *orbitControllerImpl) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

func (oc *orbitControllerImpl) Azimuth() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.azimuth
}

func (oc *orbitControllerImpl) Elevation() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.elevation
}

// Update orbits with left/right, zooms with up/down and orbits by the cursor delta while dragging.
func (oc *orbitControllerImpl) Update(ctrl input.Controller, dt float32) {
	oc.mu.Lock()
	speed, sens := oc.orbitSpeed, oc.mouseSensitivity
	oc.mu.Unlock()

	var dAzim, dElev float32
	if ctrl.Left() {
		dAzim -= speed * dt
	}
	if ctrl.Right() {
		dAzim += speed * dt
	}
	if ctrl.Dragged() {
		dx, dy := ctrl.CursorDelta()
		dAzim += dx * sens
		dElev += dy * sens
	}
	if dAzim != 0 || dElev != 0 {
		oc.Orbit(dAzim, dElev)
	}

	step := ctrl.Speed() * dt
	if ctrl.Up() {
		oc.Zoom(step)
	}
	if ctrl.Down() {
		oc.Zoom(-step)
	}
}

// OrbitControllerOption is a functional option for configuring an OrbitController.
type OrbitControllerOption func(*orbitControllerImpl)

// WithRadius sets the initial orbit radius.
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - OrbitControllerOption: functional option to set the radius
func WithRadius(radius float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.radius = radius
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
func WithAngles(azimuth, elevation float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.azimuth = azimuth
		oc.elevation = elevation
	}
}

// WithTarget sets the look-at point.
func WithTarget(x, y, z float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.target = [3]float32{x, y, z}
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - minRadius: closest zoom distance
//   - maxRadius: farthest zoom distance
//
// Returns:
//   - OrbitControllerOption: functional option to set radius bounds
func WithRadiusBounds(minRadius, maxRadius float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minRadius = minRadius
		oc.maxRadius = maxRadius
	}
}

// WithOrbitSpeed sets the keyboard orbit speed in radians per second.
func WithOrbitSpeed(speed float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.orbitSpeed = speed
	}
}

// WithMouseSensitivity sets the drag orbit in radians per pixel.
func WithMouseSensitivity(sensitivity float32) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.mouseSensitivity = sensitivity
	}
}

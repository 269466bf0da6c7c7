// Package input tracks keyboard and mouse state between frames and hands it to the
// objects that react to it.
package input

import (
	"sync"

	"github.com/mjm114514/personal-wgpu-demos/common"
)

// Updatable is anything driven by the input state once per frame.
type Updatable interface {
	// Update applies the current input state over an elapsed time.
	//
	// Parameters:
	//   - ctrl: the input state for this frame
	//   - dt: elapsed time in seconds
	Update(ctrl Controller, dt float32)
}

// Controller exposes directional key state, left-drag state and the cursor delta of the frame.
// Window callbacks feed it from the windowing thread while UpdateAll runs on the render thread.
type Controller interface {
	// Speed returns the movement speed in world units per second.
	Speed() float32

	// SetSpeed changes the movement speed.
	SetSpeed(speed float32)

	Up() bool
	Down() bool
	Left() bool
	Right() bool

	// Dragged reports whether the left mouse button is held.
	Dragged() bool

	// CursorDelta returns the cursor movement since the last UpdateAll.
	//
	// Returns:
	//   - dx, dy: the movement in pixels, +x right and +y down
	CursorDelta() (dx, dy float32)

	// HandleKey records a key press or release.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	//   - pressed: true on press, false on release
	//
	// Returns:
	//   - bool: true if the key is one the controller tracks
	HandleKey(keyCode uint32, pressed bool) bool

	// HandleMouseButton records a mouse button press or release.
	//
	// Returns:
	//   - bool: true if the button is the left button
	HandleMouseButton(button int, pressed bool) bool

	// HandleCursor records the current cursor position.
	HandleCursor(x, y float64)

	// UpdateAll calls Update on each target in order, then makes the current cursor the
	// reference for the next frame's delta.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - targets: the objects to update
	UpdateAll(dt float32, targets ...Updatable)
}

type controllerImpl struct {
	mu sync.Mutex

	speed float32

	up, down, left, right bool
	dragged               bool

	currentCursor [2]float64
	lastCursor    [2]float64
	// cursorSeen is false until the first cursor event so the first delta is zero.
	cursorSeen bool
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller with the given movement speed.
//
// Parameters:
//   - speed: movement speed in world units per second
//
// Returns:
//   - Controller: the new controller with nothing pressed
func NewController(speed float32) Controller {
	return &controllerImpl{speed: speed}
}

func (c *controllerImpl) Speed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *controllerImpl) SetSpeed(speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
}

func (c *controllerImpl) Up() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *controllerImpl) Down() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.down
}

func (c *controllerImpl) Left() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left
}

func (c *controllerImpl) Right() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

func (c *controllerImpl) Dragged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragged
}

func (c *controllerImpl) CursorDelta() (dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float32(c.currentCursor[0] - c.lastCursor[0]), float32(c.currentCursor[1] - c.lastCursor[1])
}

func (c *controllerImpl) HandleKey(keyCode uint32, pressed bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch keyCode {
	case common.KeyW, common.KeyUp:
		c.up = pressed
	case common.KeyS, common.KeyDown:
		c.down = pressed
	case common.KeyA, common.KeyLeft:
		c.left = pressed
	case common.KeyD, common.KeyRight:
		c.right = pressed
	default:
		return false
	}
	return true
}

func (c *controllerImpl) HandleMouseButton(button int, pressed bool) bool {
	if button != common.MouseButtonLeft {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragged = pressed
	return true
}

func (c *controllerImpl) HandleCursor(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentCursor = [2]float64{x, y}
	if !c.cursorSeen {
		c.lastCursor = c.currentCursor
		c.cursorSeen = true
	}
}

func (c *controllerImpl) UpdateAll(dt float32, targets ...Updatable) {
	for _, t := range targets {
		t.Update(c, dt)
	}
	c.mu.Lock()
	c.lastCursor = c.currentCursor
	c.mu.Unlock()
}

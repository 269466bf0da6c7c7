package engine

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/input"
	"github.com/mjm114514/personal-wgpu-demos/engine/profiler"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer"
	"github.com/mjm114514/personal-wgpu-demos/engine/scene"
	"github.com/mjm114514/personal-wgpu-demos/engine/timer"
	"github.com/mjm114514/personal-wgpu-demos/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	mu *sync.RWMutex

	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window window.Window
	input  input.Controller
	timer  timer.Timer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine runs a window, a fixed-rate tick loop and a render loop over the registered scenes.
//
// Each render frame ticks the frame timer, updates every active scene's camera from the input
// controller, prepares the scenes and draws them in ascending key order inside one pass.
type Engine interface {
	// Window returns the window the engine drives, or nil when running headless.
	Window() window.Window

	// Input returns the controller fed by the window's key and mouse events.
	Input() input.Controller

	// Timer returns the frame timer. Stopping it freezes animation and camera movement.
	Timer() timer.Timer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the tick loop rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick, for logic that should not run
	// at the render rate.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the frame's delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit caps the render loop in frames per second. 0 uncaps it.
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are drawn in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given key.
	RemoveScene(key int)

	// Scene returns the scene at key, or nil.
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// Run starts the tick and render loops and processes window events on the calling
	// goroutine, which must be the main thread. Returns once the window closes and both loops
	// have stopped.
	Run()

	// Quit signals the loops to stop. The window is asked to close on its next update. Safe to
	// call more than once.
	Quit()
}

// NewEngine creates an Engine and routes the window's events to the input controller, the
// frame timer and the scenes.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.RWMutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.input == nil {
		e.input = input.NewController(5)
	}
	if e.timer == nil {
		e.timer = timer.NewTimer()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if e.window != nil {
		e.bindWindow()
	}
	return e
}

// bindWindow registers the window callbacks. They run on the main thread while the render
// loop reads the same state, so everything they touch is synchronized.
func (e *engine) bindWindow() {
	e.window.SetKeyCallback(func(keyCode uint32, pressed bool) {
		switch {
		case keyCode == common.KeyP && pressed:
			e.togglePause()
			return
		case keyCode == common.KeyR && pressed:
			e.timer.Reset()
			return
		}
		e.input.HandleKey(keyCode, pressed)
	})
	e.window.SetMouseButtonCallback(func(button int, pressed bool) {
		e.input.HandleMouseButton(button, pressed)
	})
	e.window.SetCursorCallback(e.input.HandleCursor)
	e.window.SetScrollCallback(func(delta float32) {
		for _, s := range e.sortedScenes(false) {
			if ctrl := s.Camera().Controller(); ctrl != nil {
				ctrl.Zoom(delta)
			}
		}
	})
	e.window.SetResizeCallback(e.resize)
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})
}

func (e *engine) togglePause() {
	if e.timer.Stopped() {
		e.timer.Start()
	} else {
		e.timer.Stop()
	}
}

// resize reconfigures each distinct renderer once and updates every camera's aspect ratio.
// A minimized window reports zero and is ignored.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	resized := make(map[renderer.Renderer]bool)
	for _, s := range e.sortedScenes(false) {
		if r := s.Renderer(); r != nil && !resized[r] {
			r.Resize(width, height)
			resized[r] = true
		}
		s.Camera().SetAspect(float32(width) / float32(height))
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Input() input.Controller {
	return e.input
}

func (e *engine) Timer() timer.Timer {
	return e.timer
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.timer.Reset()
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()

	// The surface must outlive the render loop.
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			log.Printf("closing window: %v", err)
		}
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine fires the tick callback at the configured rate and listens for rate
// changes on tickRateChannel until quit.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender renders frames until quit. A panic is logged and shuts the engine down.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		frameStart := time.Now()
		e.frame()

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// frame renders one frame, then runs the render callback and feeds the profiler.
func (e *engine) frame() {
	dt, instances := e.renderFrame()

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	if e.profilingEnabled {
		e.profiler.Tick(instances)
	}
}

// renderFrame runs one frame over the active scenes. All of them share the first scene's
// renderer and are drawn into a single pass. A frame whose swapchain texture cannot be
// acquired is skipped.
//
// Returns:
//   - float32: the frame's delta time in seconds
//   - int: the number of instances drawn
func (e *engine) renderFrame() (float32, int) {
	e.timer.Tick()
	dt := float32(e.timer.DeltaTime().Seconds())

	active := e.sortedScenes(true)
	if len(active) == 0 {
		return dt, 0
	}

	targets := make([]input.Updatable, 0, len(active))
	seen := make(map[input.Updatable]bool, len(active))
	for _, s := range active {
		if cam := s.Camera(); !seen[cam] {
			seen[cam] = true
			targets = append(targets, cam)
		}
	}
	e.input.UpdateAll(dt, targets...)

	for _, s := range active {
		s.PrepareFrame(dt)
	}

	frameRenderer := active[0].Renderer()
	if err := frameRenderer.BeginFrame(); err != nil {
		log.Printf("skipping frame: %v", err)
		return dt, 0
	}
	instances := 0
	for _, s := range active {
		if err := s.DrawCalls(); err != nil {
			log.Printf("%v", err)
			continue
		}
		instances += s.InstanceCount()
	}
	frameRenderer.EndFrame()
	frameRenderer.Present()
	return dt, instances
}

// sortedScenes returns the scenes in ascending key order, optionally only the active ones.
func (e *engine) sortedScenes(activeOnly bool) []scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		s := e.scenes[k]
		if activeOnly && !s.Active() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate takes effect immediately when the engine is running.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.RLock()
	running := e.running
	e.mu.RUnlock()
	if !running {
		e.engineTickRate = newRate
		return
	}

	// Replace any pending update that the loop has not picked up yet.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

// frameDuration converts a frame rate cap to a minimum frame duration; 0 means uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

package engine

import (
	"time"

	"github.com/mjm114514/personal-wgpu-demos/engine/input"
	"github.com/mjm114514/personal-wgpu-demos/engine/profiler"
	"github.com/mjm114514/personal-wgpu-demos/engine/scene"
	"github.com/mjm114514/personal-wgpu-demos/engine/timer"
	"github.com/mjm114514/personal-wgpu-demos/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the periodic profiler log line.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler, for instance to report frame stats somewhere
// other than the log. It only reports while profiling is enabled.
//
// Parameters:
//   - p: the profiler fed once per rendered frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the tick loop rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose events drive the input controller and whose closing ends Run.
// Without a window the engine renders until Quit.
//
// Parameters:
//   - w: a spawned Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithInput replaces the default input controller (speed 5 units per second).
func WithInput(ctrl input.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.input = ctrl
	}
}

// WithTimer replaces the frame timer, typically with one on a fake clock.
func WithTimer(t timer.Timer) EngineBuilderOption {
	return func(e *engine) {
		e.timer = t
	}
}

// WithScene registers a scene at the given z-index key.
//
// Parameters:
//   - key: the z-index determining draw order (lower draws first)
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithRenderFrameLimit caps the render loop in frames per second. 0 uncaps it (default).
//
// Parameters:
//   - fps: maximum render frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

// Package timer provides a pausable frame stopwatch.
package timer

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Timer measures the time between ticks and the total running time, excluding
// any span between Stop and Start.
type Timer interface {
	// Reset restarts total time from now and resumes the timer.
	Reset()

	// Start resumes a stopped timer. The stopped span is excluded from TotalTime.
	Start()

	// Stop pauses the timer. Tick reports a zero delta until Start.
	Stop()

	// Tick advances the timer and records the delta since the previous tick.
	Tick()

	// DeltaTime returns the delta recorded by the last Tick.
	DeltaTime() time.Duration

	// TotalTime returns the running time since Reset, not counting paused spans.
	TotalTime() time.Duration

	// Stopped reports whether the timer is paused.
	Stopped() bool
}

type timerImpl struct {
	mu    sync.Mutex
	clock Clock

	base    time.Time
	curr    time.Time
	stop    time.Time
	paused  time.Duration
	delta   time.Duration
	stopped bool
}

var _ Timer = &timerImpl{}

// TimerBuilderOption is a functional option applied in NewTimer.
type TimerBuilderOption func(*timerImpl)

// WithClock replaces time.Now as the time source.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - TimerBuilderOption: a function that sets the clock
func WithClock(clock Clock) TimerBuilderOption {
	return func(t *timerImpl) {
		t.clock = clock
	}
}

// NewTimer creates a running Timer whose base time is now.
//
// Parameters:
//   - options: functional options to configure the timer
//
// Returns:
//   - Timer: the new timer
func NewTimer(options ...TimerBuilderOption) Timer {
	t := &timerImpl{clock: time.Now}
	for _, opt := range options {
		opt(t)
	}
	now := t.clock()
	t.base, t.curr, t.stop = now, now, now
	return t
}

func (t *timerImpl) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	t.base = now
	t.curr = now
	t.paused = 0
	t.delta = 0
	t.stopped = false
}

func (t *timerImpl) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stopped {
		return
	}
	now := t.clock()
	t.paused += now.Sub(t.stop)
	t.curr = now
	t.stopped = false
}

func (t *timerImpl) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stop = t.clock()
	t.stopped = true
}

func (t *timerImpl) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		t.delta = 0
		return
	}
	now := t.clock()
	t.delta = now.Sub(t.curr)
	t.curr = now
}

func (t *timerImpl) DeltaTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delta
}

func (t *timerImpl) TotalTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	end := t.curr
	if t.stopped {
		end = t.stop
	}
	return end.Sub(t.base) - t.paused
}

func (t *timerImpl) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

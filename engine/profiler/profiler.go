// Package profiler logs frame rate, draw volume and heap statistics once per interval.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS float64
	// FrameTime is the mean frame duration over the window.
	FrameTime time.Duration
	// Instances is the mean number of instances drawn per frame.
	Instances float64
	HeapMB    float64
	GCCount   uint32
	// MaxPause is the longest GC pause that started inside the window.
	MaxPause time.Duration
}

// Profiler accumulates per-frame counts and reports them every interval.
// Not safe for concurrent use; tick it from the render loop only.
type Profiler struct {
	interval time.Duration
	now      func() time.Time
	report   func(Stats)

	windowStart time.Time
	frames      int
	instances   int
	lastGC      uint32
	memStats    runtime.MemStats
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are reported. Defaults to one second.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithReporter replaces the default log.Printf reporter.
func WithReporter(report func(Stats)) ProfilerOption {
	return func(p *Profiler) {
		p.report = report
	}
}

// NewProfiler creates a Profiler whose first window starts now.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the new profiler
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		interval: time.Second,
		now:      time.Now,
		report:   logStats,
	}
	for _, opt := range options {
		opt(p)
	}
	p.windowStart = p.now()
	return p
}

// Tick records one frame and reports when the interval has elapsed.
//
// Parameters:
//   - instances: the number of instances drawn this frame
//
// Returns:
//   - bool: true if stats were reported this tick
func (p *Profiler) Tick(instances int) bool {
	p.frames++
	p.instances += instances

	now := p.now()
	elapsed := now.Sub(p.windowStart)
	if elapsed < p.interval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		FPS:       float64(p.frames) / elapsed.Seconds(),
		FrameTime: elapsed / time.Duration(p.frames),
		Instances: float64(p.instances) / float64(p.frames),
		HeapMB:    float64(p.memStats.HeapAlloc) / (1 << 20),
		GCCount:   p.memStats.NumGC,
	}
	// PauseNs is a ring of the last 256 pauses.
	first := p.lastGC
	if stats.GCCount-first > 256 {
		first = stats.GCCount - 256
	}
	for i := first; i < stats.GCCount; i++ {
		stats.MaxPause = max(stats.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
	}
	p.report(stats)

	p.windowStart = now
	p.frames = 0
	p.instances = 0
	p.lastGC = stats.GCCount
	return true
}

func logStats(s Stats) {
	log.Printf("[Profiler] FPS: %.1f | frame: %v | instances: %.0f | heap: %.2f MB | GC: %d (max pause %v)",
		s.FPS, s.FrameTime.Round(time.Microsecond), s.Instances, s.HeapMB, s.GCCount, s.MaxPause)
}

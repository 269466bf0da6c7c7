package profiler

import (
	"testing"
	"time"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	now := time.Unix(0, 0)
	var reports []Stats
	p := NewProfiler(
		WithInterval(time.Second),
		WithClock(func() time.Time { return now }),
		WithReporter(func(s Stats) { reports = append(reports, s) }),
	)

	for i := 0; i < 3; i++ {
		now = now.Add(250 * time.Millisecond)
		if p.Tick(10) {
			t.Fatalf("tick %d reported before the interval elapsed", i)
		}
	}
	now = now.Add(250 * time.Millisecond)
	if !p.Tick(30) {
		t.Fatal("expected a report after one second")
	}

	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	s := reports[0]
	if s.FPS != 4 {
		t.Errorf("FPS = %v, want 4", s.FPS)
	}
	if s.FrameTime != 250*time.Millisecond {
		t.Errorf("FrameTime = %v, want 250ms", s.FrameTime)
	}
	if s.Instances != 15 {
		t.Errorf("Instances = %v, want 15", s.Instances)
	}

	// The window restarts after a report.
	now = now.Add(500 * time.Millisecond)
	if p.Tick(0) {
		t.Fatal("second window reported early")
	}
}

package input

import (
	"testing"

	"github.com/mjm114514/personal-wgpu-demos/common"
)

func TestHandleKeyMapping(t *testing.T) {
	tests := []struct {
		name  string
		key   uint32
		check func(Controller) bool
	}{
		{"W", common.KeyW, Controller.Up},
		{"Up arrow", common.KeyUp, Controller.Up},
		{"S", common.KeyS, Controller.Down},
		{"Down arrow", common.KeyDown, Controller.Down},
		{"A", common.KeyA, Controller.Left},
		{"Left arrow", common.KeyLeft, Controller.Left},
		{"D", common.KeyD, Controller.Right},
		{"Right arrow", common.KeyRight, Controller.Right},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(1)
			if !c.HandleKey(tt.key, true) {
				t.Fatalf("key %d not consumed", tt.key)
			}
			if !tt.check(c) {
				t.Fatalf("key %d press not recorded", tt.key)
			}
			c.HandleKey(tt.key, false)
			if tt.check(c) {
				t.Fatalf("key %d release not recorded", tt.key)
			}
		})
	}
}

func TestHandleKeyIgnoresOthers(t *testing.T) {
	c := NewController(1)
	if c.HandleKey(common.KeySpace, true) {
		t.Fatal("space should not be consumed")
	}
	if c.Up() || c.Down() || c.Left() || c.Right() {
		t.Fatal("unrelated key changed directional state")
	}
}

func TestHandleMouseButton(t *testing.T) {
	c := NewController(1)
	if c.HandleMouseButton(common.MouseButtonRight, true) {
		t.Fatal("right button should not be consumed")
	}
	if c.Dragged() {
		t.Fatal("right button started a drag")
	}
	if !c.HandleMouseButton(common.MouseButtonLeft, true) || !c.Dragged() {
		t.Fatal("left button press did not start a drag")
	}
	c.HandleMouseButton(common.MouseButtonLeft, false)
	if c.Dragged() {
		t.Fatal("left button release did not end the drag")
	}
}

type recorder struct {
	name  string
	log   *[]string
	delta [2]float32
}

func (r *recorder) Update(ctrl Controller, dt float32) {
	*r.log = append(*r.log, r.name)
	r.delta[0], r.delta[1] = ctrl.CursorDelta()
}

func TestUpdateAllOrderAndCursorDelta(t *testing.T) {
	c := NewController(1)
	c.HandleCursor(10, 20)
	c.HandleCursor(15, 18)

	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	c.UpdateAll(0.016, a, b)

	if len(log) != 2 || log[0] != "a" || log[1] != "b" {
		t.Fatalf("update order = %v, want [a b]", log)
	}
	if a.delta != [2]float32{5, -2} || b.delta != [2]float32{5, -2} {
		t.Fatalf("deltas = %v %v, want [5 -2]", a.delta, b.delta)
	}

	if dx, dy := c.CursorDelta(); dx != 0 || dy != 0 {
		t.Fatalf("delta after UpdateAll = (%v, %v), want zero", dx, dy)
	}
}

func TestFirstCursorEventHasNoDelta(t *testing.T) {
	c := NewController(1)
	c.HandleCursor(400, 300)
	if dx, dy := c.CursorDelta(); dx != 0 || dy != 0 {
		t.Fatalf("first delta = (%v, %v), want zero", dx, dy)
	}
}

package window

import "testing"

const dontCare = -1

func TestSizeLimits(t *testing.T) {
	tests := []struct {
		name    string
		options []WindowBuilderOption
		want    [4]int
	}{
		{"unbounded", nil, [4]int{dontCare, dontCare, dontCare, dontCare}},
		{"min only", []WindowBuilderOption{WithMinSize(320, 240)}, [4]int{320, 240, dontCare, dontCare}},
		{"both", []WindowBuilderOption{WithMinSize(320, 240), WithMaxSize(1920, 0)}, [4]int{320, 240, 1920, dontCare}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &engineWindow{}
			for _, opt := range tt.options {
				opt(w)
			}
			minW, minH, maxW, maxH := w.sizeLimits(dontCare)
			if got := [4]int{minW, minH, maxW, maxH}; got != tt.want {
				t.Fatalf("limits = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720, resizable: true}
	for _, opt := range []WindowBuilderOption{
		WithTitle("bricks"),
		WithSize(0, 480),
		WithResizable(false),
	} {
		opt(w)
	}
	if w.title != "bricks" || w.width != 1280 || w.height != 480 || w.resizable {
		t.Fatalf("window = %+v", w)
	}
}

package main

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/config"
	"github.com/mjm114514/personal-wgpu-demos/engine/game_object"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
	"github.com/mjm114514/personal-wgpu-demos/engine/scene"
)

type addedItem struct {
	pipeline string
	objects  int
}

// recordingScene captures what populate adds.
type recordingScene struct {
	scene.Scene
	items []addedItem
}

func (s *recordingScene) AddStatic(_ model.Model, key string, _ bind_group_provider.BindGroupProvider) error {
	s.items = append(s.items, addedItem{pipeline: key})
	return nil
}

func (s *recordingScene) AddInstanced(_ model.Model, key string, _ bind_group_provider.BindGroupProvider, objects ...game_object.GameObject) error {
	s.items = append(s.items, addedItem{pipeline: key, objects: len(objects)})
	return nil
}

func TestGridObjectsAreCentered(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Grid = 3
	cfg.Spacing = 2

	objects := gridObjects(cfg)
	if len(objects) != 9 {
		t.Fatalf("objects = %d, want 9", len(objects))
	}
	var sumX, sumZ float32
	for _, o := range objects {
		x, y, z := o.Position()
		sumX += x
		sumZ += z
		if y != cfg.Radius+0.1 {
			t.Fatalf("y = %v, want %v", y, cfg.Radius+0.1)
		}
	}
	if sumX != 0 || sumZ != 0 {
		t.Fatalf("field center = (%v, %v), want origin", sumX/9, sumZ/9)
	}
	if x, _, z := objects[0].Position(); x != -2 || z != -2 {
		t.Fatalf("first object at (%v, %v), want (-2, -2)", x, z)
	}
}

func TestPopulate(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Grid = 4

	sc := &recordingScene{}
	if err := populate(sc, cfg); err != nil {
		t.Fatal(err)
	}
	want := []addedItem{{pipeline: staticPipeline}, {pipeline: instancedPipeline, objects: 16}}
	if len(sc.items) != 2 || sc.items[0] != want[0] || sc.items[1] != want[1] {
		t.Fatalf("items = %+v, want %+v", sc.items, want)
	}

	cfg.Grid = 0
	sc = &recordingScene{}
	if err := populate(sc, cfg); err != nil || len(sc.items) != 1 {
		t.Fatalf("empty grid: items = %+v, err = %v", sc.items, err)
	}
}

func TestSamplerFor(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Filter = "nearest"
	cfg.AddressMode = "clamp-to-edge"
	s, err := samplerFor(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.MinFilter != wgpu.FilterModeNearest || s.AddressModeV != wgpu.AddressModeClampToEdge {
		t.Fatalf("sampler = %+v", s)
	}

	cfg.Filter = "cubic"
	if _, err := samplerFor(cfg); err == nil {
		t.Fatal("expected an error for an unknown filter")
	}
}

package scene

import (
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/camera"
	"github.com/mjm114514/personal-wgpu-demos/engine/game_object"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/pipeline"
)

type draw struct {
	key       string
	instances uint32
	groups    int
}

// fakeRenderer keeps the pipelines and records the calls a scene makes.
type fakeRenderer struct {
	mu         sync.Mutex
	pipelines  map[string]pipeline.Pipeline
	meshInits  int
	bindGroups []string
	capacities map[string]int
	writes     [][]bind_group_provider.BufferWrite
	draws      []draw
}

func newFakeRenderer(t *testing.T) *fakeRenderer {
	t.Helper()
	f := &fakeRenderer{
		pipelines:  make(map[string]pipeline.Pipeline),
		capacities: make(map[string]int),
	}
	for _, instanced := range []bool{false, true} {
		key := "static"
		if instanced {
			key = "instanced"
		}
		p, err := pipeline.NewTexturedPipeline(key, instanced)
		if err != nil {
			t.Fatal(err)
		}
		f.pipelines[key] = p
	}
	return f
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }
func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline { return f.pipelines }
func (f *fakeRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }
func (f *fakeRenderer) Resize(int, int) {}
func (f *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (f *fakeRenderer) BeginFrame() error { return nil }
func (f *fakeRenderer) EndFrame() {}
func (f *fakeRenderer) Present() {}

func (f *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	f.meshInits++
	return nil
}

func (f *fakeRenderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity int, stride uint64) error {
	if capacity > f.capacities[provider.Label()] {
		f.capacities[provider.Label()] = capacity
	}
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroups = append(f.bindGroups, provider.Label())
	return nil
}

func (f *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (f *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, append([]bind_group_provider.BufferWrite(nil), writes...))
}

func (f *fakeRenderer) DrawCall(key string, item bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, draw{key: key, instances: instanceCount, groups: len(bindGroups)})
	return nil
}

func newTestModel(t *testing.T, name string) model.Model {
	t.Helper()
	mesh, err := model.Brick(1, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	return model.NewModel(model.WithName(name), model.WithMesh(mesh))
}

func TestAddStaticResolvesGroups(t *testing.T) {
	r := newFakeRenderer(t)
	s := NewScene("test", camera.NewCamera(), r, WithPrepWorkers(1))

	textures := bind_group_provider.NewBindGroupProvider("bricks")
	if err := s.AddStatic(newTestModel(t, "floor"), "static", textures); err != nil {
		t.Fatalf("AddStatic: %v", err)
	}
	if s.Count() != 1 || s.InstanceCount() != 1 {
		t.Fatalf("count = %d, instances = %d, want 1 and 1", s.Count(), s.InstanceCount())
	}
	if r.meshInits != 1 {
		t.Fatalf("mesh uploads = %d, want 1", r.meshInits)
	}
	if len(r.bindGroups) != 2 || r.bindGroups[0] != "bricks" {
		t.Fatalf("bind groups created = %v, want texture then camera", r.bindGroups)
	}

	s.PrepareFrame(0.016)
	if err := s.DrawCalls(); err != nil {
		t.Fatal(err)
	}
	if len(r.draws) != 1 || r.draws[0] != (draw{key: "static", instances: 1, groups: 2}) {
		t.Fatalf("draws = %+v", r.draws)
	}
}

func TestAddRejectsPipelineMismatch(t *testing.T) {
	r := newFakeRenderer(t)
	s := NewScene("test", camera.NewCamera(), r, WithPrepWorkers(1))
	textures := bind_group_provider.NewBindGroupProvider("bricks")

	if err := s.AddStatic(newTestModel(t, "a"), "missing", textures); err == nil {
		t.Fatal("expected an error for an unregistered pipeline")
	}
	if err := s.AddStatic(newTestModel(t, "b"), "instanced", textures); err == nil {
		t.Fatal("expected an error for a static item on an instanced pipeline")
	}
	if err := s.AddInstanced(newTestModel(t, "c"), "static", textures); err == nil {
		t.Fatal("expected an error for an instanced item on a static pipeline")
	}
	if err := s.AddStatic(newTestModel(t, "d"), "static", nil); err == nil {
		t.Fatal("expected an error without a texture provider")
	}

	shared := newTestModel(t, "shared")
	if err := s.AddInstanced(shared, "instanced", textures); err != nil {
		t.Fatal(err)
	}
	if err := s.AddInstanced(shared, "instanced", textures); err == nil {
		t.Fatal("expected an error for a model backing two instanced items")
	}
	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1", s.Count())
	}
}

func TestPrepareFrameCullsAndPacks(t *testing.T) {
	r := newFakeRenderer(t)
	cam := camera.NewCamera()
	s := NewScene("test", cam, r, WithPrepWorkers(2))

	ahead := game_object.NewGameObject(game_object.WithPosition(0, 0, 10))
	behind := game_object.NewGameObject(game_object.WithPosition(0, 0, -10))
	disabled := game_object.NewGameObject(game_object.WithPosition(0, 0, 5), game_object.WithEnabled(false))
	spinning := game_object.NewGameObject(game_object.WithPosition(1, 0, 10), game_object.WithRotationSpeed(0, 1, 0))

	mdl := newTestModel(t, "bricks")
	textures := bind_group_provider.NewBindGroupProvider("bricks_tex")
	if err := s.AddInstanced(mdl, "instanced", textures, ahead, behind, disabled, spinning); err != nil {
		t.Fatal(err)
	}
	if got := r.capacities[mdl.MeshProvider().Label()]; got != 4 {
		t.Fatalf("initial capacity = %d, want 4", got)
	}

	s.PrepareFrame(0.5)
	if s.InstanceCount() != 2 {
		t.Fatalf("visible instances = %d, want 2", s.InstanceCount())
	}
	if _, _, rot, _ := spinning.TransformData(); rot[1] != 0.5 {
		t.Fatalf("rotation after advance = %v, want 0.5 about Y", rot)
	}

	writes := r.writes[len(r.writes)-1]
	if len(writes) != 2 {
		t.Fatalf("writes = %d, want camera and instances", len(writes))
	}
	if writes[0].Target != bind_group_provider.TargetBinding || writes[0].Provider != cam.BindGroupProvider() {
		t.Fatal("first write should be the camera uniforms")
	}
	vp := cam.Uniforms()
	if len(writes[0].Data) != len(vp.Marshal()) {
		t.Fatalf("camera write = %d bytes", len(writes[0].Data))
	}
	if writes[1].Target != bind_group_provider.TargetInstance || len(writes[1].Data) != 2*model.GPUInstanceSize {
		t.Fatalf("instance write = %+v bytes %d", writes[1].Target, len(writes[1].Data))
	}

	s.SetCullingDisabled(true)
	s.PrepareFrame(0)
	if s.InstanceCount() != 3 {
		t.Fatalf("visible instances without culling = %d, want 3", s.InstanceCount())
	}

	if err := s.DrawCalls(); err != nil {
		t.Fatal(err)
	}
	if last := r.draws[len(r.draws)-1]; last.instances != 3 || last.key != "instanced" {
		t.Fatalf("draw = %+v", last)
	}
}

func TestPrepareFrameSkipsEmptyItems(t *testing.T) {
	r := newFakeRenderer(t)
	s := NewScene("test", camera.NewCamera(), r, WithPrepWorkers(1), WithCullingDisabled(true))

	obj := game_object.NewGameObject(game_object.WithEnabled(false))
	if err := s.AddInstanced(newTestModel(t, "hidden"), "instanced", bind_group_provider.NewBindGroupProvider("tex"), obj); err != nil {
		t.Fatal(err)
	}
	s.PrepareFrame(0)
	if len(r.writes[0]) != 1 {
		t.Fatalf("writes = %d, want only the camera", len(r.writes[0]))
	}
	if err := s.DrawCalls(); err != nil {
		t.Fatal(err)
	}
	if len(r.draws) != 0 {
		t.Fatalf("draws = %+v, want none", r.draws)
	}

	s.Clear()
	if s.Count() != 0 {
		t.Fatal("Clear should drop every item")
	}
}

func TestNewScenePanicsWithoutCamera(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	NewScene("test", nil, newFakeRenderer(t))
}

func TestWithActive(t *testing.T) {
	s := NewScene("paused", camera.NewCamera(), newFakeRenderer(t), WithActive(false))
	if s.Active() {
		t.Fatal("scene built with WithActive(false) is active")
	}
	s.SetActive(true)
	if !s.Active() {
		t.Fatal("SetActive(true) did not activate the scene")
	}
	if !NewScene("default", camera.NewCamera(), newFakeRenderer(t)).Active() {
		t.Fatal("scenes start active by default")
	}
}

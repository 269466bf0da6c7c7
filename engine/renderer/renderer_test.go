package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/pipeline"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/shader"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/shader/assets"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/shading"
	"github.com/mjm114514/personal-wgpu-demos/engine/texture"
)

// recordingBackend stands in for the GPU and records what the renderer asks of it.
type recordingBackend struct {
	registered      []string
	instanceBuffers int
	draws           []uint32
	writes          int
}

func (f *recordingBackend) Device() *wgpu.Device { return nil }
func (f *recordingBackend) Queue() *wgpu.Queue { return nil }
func (f *recordingBackend) Adapter() *wgpu.Adapter { return nil }
func (f *recordingBackend) Surface() *wgpu.Surface { return nil }
func (f *recordingBackend) ConfigureSurface(width, height int) {}
func (f *recordingBackend) SetPresentMode(mode PresentMode) {}
func (f *recordingBackend) SetClearColor(c wgpu.Color) {}
func (f *recordingBackend) BeginFrame() error { return nil }
func (f *recordingBackend) EndFrame() {}
func (f *recordingBackend) Present() {}
func (f *recordingBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) { f.writes += len(writes) }

func (f *recordingBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *recordingBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (f *recordingBackend) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity int, stride uint64) error {
	f.instanceBuffers++
	return nil
}

func (f *recordingBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (f *recordingBackend) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (f *recordingBackend) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *recordingBackend) DrawCall(p pipeline.Pipeline, item bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	f.draws = append(f.draws, instanceCount)
}

func newTestRenderer() (*renderer, *recordingBackend) {
	b := &recordingBackend{}
	return &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backend:       b,
	}, b
}

func TestRegisterPipelines(t *testing.T) {
	r, b := newTestRenderer()
	static, err := pipeline.NewTexturedPipeline("static", false)
	if err != nil {
		t.Fatal(err)
	}
	instanced, err := pipeline.NewTexturedPipeline("instanced", true)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.RegisterPipelines(static, instanced, static); err != nil {
		t.Fatalf("RegisterPipelines: %v", err)
	}
	if len(b.registered) != 2 {
		t.Fatalf("backend registrations = %v, want one per key", b.registered)
	}
	if r.Pipeline("static") == nil || r.Pipeline("instanced") == nil || len(r.Pipelines()) != 2 {
		t.Fatal("pipelines not cached")
	}
}

func TestRegisterPipelinesRejectsMismatch(t *testing.T) {
	r, b := newTestRenderer()
	vs, err := shader.NewShader("vs", shader.ShaderTypeVertex, shader.WithSource(assets.StaticVertex))
	if err != nil {
		t.Fatal(err)
	}
	fs, err := shader.NewShader("fs", shader.ShaderTypeFragment, shader.WithSource(assets.TexturedFragment))
	if err != nil {
		t.Fatal(err)
	}
	// The host forgets the sampler.
	p := pipeline.NewPipeline("bad",
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBindings(pipeline.VertexBindings(), pipeline.FragmentBindings()[:1]),
	)

	err = r.RegisterPipelines(p)
	if !errors.Is(err, shader.ErrBindingMismatch) {
		t.Fatalf("RegisterPipelines = %v, want ErrBindingMismatch", err)
	}
	if len(b.registered) != 0 || r.Pipeline("bad") != nil {
		t.Fatal("a rejected pipeline must not reach the backend")
	}
}

func TestDrawCall(t *testing.T) {
	r, b := newTestRenderer()
	static, _ := pipeline.NewTexturedPipeline("static", false)
	instanced, _ := pipeline.NewTexturedPipeline("instanced", true)
	if err := r.RegisterPipelines(static, instanced); err != nil {
		t.Fatal(err)
	}
	item := bind_group_provider.NewBindGroupProvider("item")

	if err := r.DrawCall("missing", item, 1, nil); err == nil {
		t.Fatal("expected an error for an unknown pipeline")
	}
	if err := r.DrawCall("instanced", item, 4, nil); err == nil {
		t.Fatal("expected an error for an instanced draw without an instance buffer")
	}
	if err := r.DrawCall("static", item, 1, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawCall("static", item, 0, nil); err != nil {
		t.Fatal(err)
	}
	if len(b.draws) != 1 || b.draws[0] != 1 {
		t.Fatalf("draws = %v, want a single draw of one instance", b.draws)
	}
}

func TestInitInstanceBufferCreatesWhenMissing(t *testing.T) {
	r, b := newTestRenderer()
	item := bind_group_provider.NewBindGroupProvider("item")
	if err := r.InitInstanceBuffer(item, 10, 64); err != nil {
		t.Fatal(err)
	}
	if b.instanceBuffers != 1 {
		t.Fatalf("backend calls = %d, want 1", b.instanceBuffers)
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		1: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageVertex}}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 3, Visibility: wgpu.ShaderStageVertex},
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}, {Binding: 1, Visibility: wgpu.ShaderStageFragment}}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}, {Binding: 1, Visibility: wgpu.ShaderStageFragment}}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 3 {
		t.Fatalf("groups = %d, want 3", len(merged))
	}
	if len(merged[0].Entries) != 2 || len(merged[1].Entries) != 1 {
		t.Fatal("single-stage groups should pass through")
	}

	shared := merged[2].Entries
	if len(shared) != 3 {
		t.Fatalf("shared group entries = %d, want 3", len(shared))
	}
	for i, want := range []uint32{0, 1, 3} {
		if shared[i].Binding != want {
			t.Fatalf("entry %d binding = %d, want %d", i, shared[i].Binding, want)
		}
	}
	if shared[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Fatalf("binding 0 visibility = %v, want vertex|fragment", shared[0].Visibility)
	}
}

func TestParsePresentMode(t *testing.T) {
	if ParsePresentMode("uncapped") != PresentModeUncapped || ParsePresentMode("vsync") != PresentModeVSync || ParsePresentMode("") != PresentModeVSync {
		t.Fatal("unexpected present mode mapping")
	}
}

func TestSamplerDescriptorKeepsStagedModes(t *testing.T) {
	nearest := texture.DefaultSampler()
	nearest.MagFilter, nearest.MinFilter = wgpu.FilterModeNearest, wgpu.FilterModeNearest

	clamped := texture.DefaultSampler()
	clamped.AddressModeU, clamped.AddressModeV = wgpu.AddressModeClampToEdge, wgpu.AddressModeMirrorRepeat

	for _, tt := range []struct {
		name   string
		staged *common.SamplerStagingData
	}{
		{"nearest", nearest},
		{"clamped", clamped},
		{"zero", &common.SamplerStagingData{}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			desc := samplerDescriptor("test", *tt.staged)
			if desc.MagFilter != tt.staged.MagFilter || desc.MinFilter != tt.staged.MinFilter {
				t.Fatalf("filters = %v/%v, staged %v/%v", desc.MagFilter, desc.MinFilter, tt.staged.MagFilter, tt.staged.MinFilter)
			}
			if desc.AddressModeU != tt.staged.AddressModeU || desc.AddressModeV != tt.staged.AddressModeV {
				t.Fatalf("address modes = %v/%v, staged %v/%v", desc.AddressModeU, desc.AddressModeV, tt.staged.AddressModeU, tt.staged.AddressModeV)
			}

			cpu := shading.SamplerFromStaging(tt.staged)
			if cpu.MagFilter != desc.MagFilter || cpu.AddressModeU != desc.AddressModeU || cpu.AddressModeV != desc.AddressModeV {
				t.Fatalf("CPU sampler %+v disagrees with GPU descriptor %+v", cpu, desc)
			}
			if desc.LodMaxClamp == 0 || desc.MaxAnisotropy == 0 {
				t.Fatalf("lod max %v, anisotropy %v must not be zero", desc.LodMaxClamp, desc.MaxAnisotropy)
			}
		})
	}

	if desc := samplerDescriptor("nearest", *nearest); desc.MagFilter != wgpu.FilterModeNearest {
		t.Fatalf("nearest staging produced mag filter %v", desc.MagFilter)
	}
}

package scene

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/camera"
	"github.com/mjm114514/personal-wgpu-demos/engine/game_object"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/pipeline"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/shader"
)

// cameraBinding is the binding of the uniform block inside the camera's group.
const cameraBinding = 0

// Scene holds the render items drawn with one camera. Static items draw their mesh once
// through a static pipeline; instanced items draw one instance per enabled GameObject
// through an instanced pipeline.
//
// A frame is PrepareFrame, then DrawCalls between Renderer.BeginFrame and Renderer.EndFrame.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether the engine renders this scene.
	Active() bool

	// SetActive sets whether the engine renders this scene.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// AddStatic adds a mesh drawn once per frame with a static pipeline. The mesh is
	// uploaded and the texture group created on first use.
	//
	// Parameters:
	//   - mdl: the model to draw
	//   - pipelineKey: a registered, non-instanced pipeline
	//   - textures: the provider bound at the texture group
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or instanced, or GPU initialization fails
	AddStatic(mdl model.Model, pipelineKey string, textures bind_group_provider.BindGroupProvider) error

	// AddInstanced adds a mesh drawn once per enabled object with an instanced pipeline.
	// A model can back only one instanced item per scene since the item owns the
	// instance buffer on the model's provider.
	//
	// Parameters:
	//   - mdl: the model to draw
	//   - pipelineKey: a registered, instanced pipeline
	//   - textures: the provider bound at the texture group
	//   - objects: the instances
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or not instanced, the model is already
	//     instanced, or GPU initialization fails
	AddInstanced(mdl model.Model, pipelineKey string, textures bind_group_provider.BindGroupProvider, objects ...game_object.GameObject) error

	// Count returns the number of render items.
	Count() int

	// InstanceCount returns how many instances the next DrawCalls will draw, static items
	// counting one each.
	InstanceCount() int

	// Clear drops every render item. GPU resources are not released.
	Clear()

	// CullingDisabled reports whether frustum culling of instances is off.
	CullingDisabled() bool

	// SetCullingDisabled turns frustum culling of instances off or on.
	SetCullingDisabled(disabled bool)

	// PrepareFrame advances every object by deltaTime, packs the visible instance transforms
	// on the worker pool and queues the camera uniforms and instance data in one WriteBuffers.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// DrawCalls issues one draw per render item. Must be called between BeginFrame and EndFrame.
	//
	// Returns:
	//   - error: the first draw call error
	DrawCalls() error
}

type scene struct {
	mu     *sync.RWMutex
	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer

	items           []*renderItem
	cullingDisabled bool

	// writePool is reused each frame for the coalesced buffer writes.
	writePool []bind_group_provider.BufferWrite

	// prepPool runs the per-item transform packing. Workers persist across frames.
	prepPool    worker.DynamicWorkerPool
	prepWorkers int
}

var _ Scene = &scene{}

// NewScene creates a Scene. The camera and renderer are required and NewScene panics if
// either is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera whose view-projection the pipelines read
//   - r: the renderer the items are drawn with
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		active:      true,
		cam:         cam,
		r:           r,
		prepWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}

	// After options so WithPrepWorkers can override the default.
	s.prepPool = worker.NewDynamicWorkerPool(s.prepWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *scene) InstanceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		n += int(it.instanceCount())
	}
	return n
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *scene) AddStatic(mdl model.Model, pipelineKey string, textures bind_group_provider.BindGroupProvider) error {
	return s.add(&renderItem{model: mdl, pipelineKey: pipelineKey, textures: textures})
}

func (s *scene) AddInstanced(mdl model.Model, pipelineKey string, textures bind_group_provider.BindGroupProvider, objects ...game_object.GameObject) error {
	return s.add(&renderItem{model: mdl, pipelineKey: pipelineKey, textures: textures, instanced: true, objects: objects})
}

func (s *scene) add(it *renderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.r.Pipeline(it.pipelineKey)
	if p == nil {
		return fmt.Errorf("scene %q: pipeline %q is not registered", s.name, it.pipelineKey)
	}
	if p.Instanced() != it.instanced {
		return fmt.Errorf("scene %q: pipeline %q instanced=%v does not match the item", s.name, it.pipelineKey, p.Instanced())
	}
	if it.instanced {
		for _, other := range s.items {
			if other.instanced && other.model == it.model {
				return fmt.Errorf("scene %q: model %q already backs an instanced item", s.name, it.model.Name())
			}
		}
	}

	mp := it.model.MeshProvider()
	if mp.VertexBuffer() == nil {
		if err := s.r.InitMeshBuffers(mp, it.model.VertexData(), it.model.IndexData(), it.model.IndexCount()); err != nil {
			return fmt.Errorf("scene %q: model %q: %w", s.name, it.model.Name(), err)
		}
		it.model.ReleaseStaging()
	}
	if it.instanced {
		if err := s.r.InitInstanceBuffer(mp, growCapacity(len(it.objects)), uint64(model.GPUInstanceSize)); err != nil {
			return fmt.Errorf("scene %q: model %q: %w", s.name, it.model.Name(), err)
		}
	}

	bindGroups, err := s.resolveBindGroups(p, it)
	if err != nil {
		return err
	}
	it.bindGroups = bindGroups
	s.items = append(s.items, it)
	return nil
}

// resolveBindGroups matches every group the pipeline's shaders declare with the provider
// that serves it, creating the bind group on first use. The result is indexed by group.
func (s *scene) resolveBindGroups(p pipeline.Pipeline, it *renderItem) ([]bind_group_provider.BindGroupProvider, error) {
	groups := make(map[int]bind_group_provider.BindGroupProvider)
	layouts := make(map[int]shader.Shader)
	maxGroup := -1
	for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		sh := p.Shader(st)
		for _, decl := range sh.Declarations() {
			if decl.Group == nil {
				continue
			}
			g := *decl.Group
			maxGroup = max(maxGroup, g)
			if _, ok := groups[g]; ok {
				continue
			}
			switch decl.Identity() {
			case shader.AnnotationArgCamera:
				groups[g] = s.cam.BindGroupProvider()
			case shader.AnnotationArgTexture:
				if it.textures == nil {
					return nil, fmt.Errorf("scene %q: pipeline %q needs a texture provider", s.name, it.pipelineKey)
				}
				groups[g] = it.textures
			default:
				return nil, fmt.Errorf("scene %q: pipeline %q: no provider for %q at group %d", s.name, it.pipelineKey, decl.Identity(), g)
			}
			layouts[g] = sh
		}
	}

	bindGroups := make([]bind_group_provider.BindGroupProvider, maxGroup+1)
	for g := 0; g <= maxGroup; g++ {
		provider, ok := groups[g]
		if !ok {
			return nil, fmt.Errorf("scene %q: pipeline %q leaves group %d unbound", s.name, it.pipelineKey, g)
		}
		if provider.BindGroup() == nil {
			if err := s.r.InitBindGroup(provider, layouts[g].BindGroupLayoutDescriptor(g)); err != nil {
				return nil, fmt.Errorf("scene %q: group %d: %w", s.name, g, err)
			}
		}
		bindGroups[g] = provider
	}
	return bindGroups, nil
}

func (s *scene) PrepareFrame(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vp := s.cam.ViewProjectionMatrix()
	var frustum *common.Frustum
	if !s.cullingDisabled {
		f := common.ExtractFrustumFromMatrix(vp[:])
		frustum = &f
	}

	// A WaitGroup is the per-frame barrier; the pool's own Wait blocks until workers idle out.
	var wg sync.WaitGroup
	for i, it := range s.items {
		if !it.instanced {
			continue
		}
		wg.Add(1)
		s.prepPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				it.prepare(deltaTime, frustum)
				return nil, nil
			},
		})
	}
	wg.Wait()

	uniforms := s.cam.Uniforms()
	writes := append(s.writePool[:0], bind_group_provider.BufferWrite{
		Provider: s.cam.BindGroupProvider(),
		Target:   bind_group_provider.TargetBinding,
		Binding:  cameraBinding,
		Data:     uniforms.Marshal(),
	})
	for _, it := range s.items {
		if !it.instanced || it.visible == 0 {
			continue
		}
		mp := it.model.MeshProvider()
		if err := s.r.InitInstanceBuffer(mp, growCapacity(it.visible), uint64(model.GPUInstanceSize)); err != nil {
			log.Printf("scene %q: growing instance buffer of %q: %v", s.name, it.model.Name(), err)
			it.visible = 0
			continue
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: mp,
			Target:   bind_group_provider.TargetInstance,
			Data:     it.data,
		})
	}
	s.writePool = writes
	s.r.WriteBuffers(writes)
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		count := it.instanceCount()
		if count == 0 {
			continue
		}
		if err := s.r.DrawCall(it.pipelineKey, it.model.MeshProvider(), count, it.bindGroups); err != nil {
			return fmt.Errorf("draw call failed for %q in scene %q: %w", it.model.Name(), s.name, err)
		}
	}
	return nil
}

package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/pipeline"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           *wgpu.Color
	pendingPipelines     []pipeline.Pipeline
}

// Renderer draws textured meshes with registered pipelines.
//
// A frame is BeginFrame, any number of DrawCall, EndFrame, then Present. Resources live on
// BindGroupProviders which the Renderer fills through the Init methods.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline with the given key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the pipeline cache.
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines validates each pipeline's shaders against its binding table, creates
	// the GPU render pipeline and caches it by key. Keys already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: a validation error wrapping shader.ErrBindingMismatch, or a GPU creation error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and the MSAA and depth attachments.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads vertex and Uint32 index data into new GPU buffers stored on the
	// provider.
	//
	// Parameters:
	//   - provider: the render item's provider
	//   - vertexData: packed vertices
	//   - indexData: packed Uint32 indices
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitInstanceBuffer makes sure the provider's instance buffer holds at least capacity
	// instances of stride bytes. A smaller buffer is replaced; contents are not preserved.
	//
	// Parameters:
	//   - provider: the render item's provider
	//   - capacity: the number of instances required
	//   - stride: the size in bytes of one instance
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity int, stride uint64) error

	// InitBindGroup creates the layout, the missing GPU resources and the bind group described by
	// descriptor. Textures and samplers are created from the provider's staged data unless the
	// provider already holds them. Buffers are created with the descriptor's MinBindingSize.
	//
	// Parameters:
	//   - provider: the provider to populate
	//   - descriptor: the group's layout, normally reflected from a shader
	//
	// Returns:
	//   - error: an error if a texture or sampler binding has nothing staged, or GPU creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads staged pixels into a new RGBA8 sRGB texture at binding.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler at binding. Zero fields of the staging data take defaults.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues the writes on the device queue. Writes against a missing buffer are
	// dropped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall draws a render item within the current pass. bindGroups is indexed by group
	// number. An instanced pipeline reads the item's instance buffer from slot 1.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - item: the provider holding the vertex, index and instance buffers
	//   - instanceCount: the number of instances; 1 for a static item
	//   - bindGroups: the providers bound at group 0, 1, ...
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or an instanced item has no instance buffer
	DrawCall(pipelineKey string, item bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the pass and submits the command buffer. Call Present afterwards.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()
}

var _ Renderer = &renderer{}

// Surface is what the renderer needs from a window. window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// NewRenderer creates the backend for the given window and configures its surface.
// GPU initialization failures panic.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - win: the window supplying the surface descriptor and size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
func NewRenderer(backendType RendererBackendType, win Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Options first: the fallback adapter flag must be known before the adapter is requested.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.clearColor != nil {
		r.backend.SetClearColor(*r.clearColor)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())

	if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
		panic(err)
	}
	r.pendingPipelines = nil
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("pipeline %s: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, capacity int, stride uint64) error {
	if capacity <= provider.InstanceCapacity() && provider.InstanceBuffer() != nil {
		return nil
	}
	return r.backend.InitInstanceBuffer(provider, capacity, stride)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, binding, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, binding, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, item bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	if p.Instanced() && item.InstanceBuffer() == nil {
		return fmt.Errorf("render pipeline %q is instanced but %s has no instance buffer", pipelineKey, item.Label())
	}
	if instanceCount == 0 {
		return nil
	}

	r.backend.DrawCall(p, item, instanceCount, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

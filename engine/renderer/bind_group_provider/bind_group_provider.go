package bind_group_provider

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/common"
)

// bindGroupProvider is the implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu    sync.RWMutex
	label string

	// GPU resources, populated by the Renderer and released by Release.

	bindGroup    *wgpu.BindGroup
	buffers      map[int]*wgpu.Buffer
	textures     map[int]*wgpu.Texture
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	// Staging data, consumed by Renderer.InitBindGroup.

	textureStaging map[int]*common.TextureStagingData
	samplerStaging map[int]*common.SamplerStagingData

	// Render item buffers. The index buffer is always Uint32.

	vertexBuffer     *wgpu.Buffer
	indexBuffer      *wgpu.Buffer
	indexCount       int
	instanceBuffer   *wgpu.Buffer
	instanceCapacity int
}

// BindGroupProvider owns the GPU resources behind one bind group, or the vertex, index and
// instance buffers of one render item. Components hold a provider, the Renderer fills it.
//
// Usage pattern:
//  1. A component creates a provider, staging textures or samplers with options
//  2. The Scene calls Renderer.InitBindGroup or Renderer.InitMeshBuffers with it
//  3. Per frame, the Scene queues BufferWrites against it
//  4. DrawCall binds BindGroup() or the item buffers
type BindGroupProvider interface {
	// Label returns the debug label of the provider.
	Label() string

	// BindGroup returns the created bind group, or nil before initialization.
	BindGroup() *wgpu.BindGroup

	// SetBindGroup stores the bind group created by the Renderer.
	SetBindGroup(bg *wgpu.BindGroup)

	// Buffer returns the buffer at binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// SetBuffer stores the buffer created for binding.
	SetBuffer(binding int, buf *wgpu.Buffer)

	// TextureView returns the texture view at binding, or nil.
	TextureView(binding int) *wgpu.TextureView

	// SetTexture stores the texture and the view created for binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the GPU texture, owned by the provider from now on
	//   - view: the view bound to the shader
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView)

	// Sampler returns the sampler at binding, or nil.
	Sampler(binding int) *wgpu.Sampler

	// SetSampler stores the sampler created for binding.
	SetSampler(binding int, s *wgpu.Sampler)

	// TextureStaging returns the pixel data staged for binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *common.TextureStagingData: the staged pixels or nil
	TextureStaging(binding int) *common.TextureStagingData

	// SamplerStaging returns the sampler configuration staged for binding, or nil.
	SamplerStaging(binding int) *common.SamplerStagingData

	// ClearStaging drops staged data once it has been uploaded.
	ClearStaging()

	// VertexBuffer returns the render item's vertex buffer, or nil.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the render item's Uint32 index buffer, or nil.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices drawn per instance.
	IndexCount() int

	// SetMeshBuffers stores the render item's vertex and index buffers.
	//
	// Parameters:
	//   - vertex: the vertex buffer
	//   - index: the Uint32 index buffer
	//   - indexCount: the number of indices
	SetMeshBuffers(vertex, index *wgpu.Buffer, indexCount int)

	// InstanceBuffer returns the per-instance transform buffer, or nil for static items.
	InstanceBuffer() *wgpu.Buffer

	// InstanceCapacity returns how many instances the instance buffer holds.
	InstanceCapacity() int

	// SetInstanceBuffer replaces the instance buffer, releasing the previous one.
	//
	// Parameters:
	//   - buf: the new buffer
	//   - capacity: the number of instances it holds
	SetInstanceBuffer(buf *wgpu.Buffer, capacity int)

	// Release releases every GPU resource held by the provider.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a BindGroupProvider.
//
// Parameters:
//   - label: a debug label, also used for the GPU objects created from the provider
//   - options: options staging textures, samplers or pre-created buffers
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:          label,
		buffers:        make(map[int]*wgpu.Buffer),
		textures:       make(map[int]*wgpu.Texture),
		textureViews:   make(map[int]*wgpu.TextureView),
		samplers:       make(map[int]*wgpu.Sampler),
		textureStaging: make(map[int]*common.TextureStagingData),
		samplerStaging: make(map[int]*common.SamplerStagingData),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bindGroup
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroup = bg
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.textureViews[binding]
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.textures[binding] = tex
	p.textureViews[binding] = view
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.samplers[binding]
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samplers[binding] = s
}

func (p *bindGroupProvider) TextureStaging(binding int) *common.TextureStagingData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.textureStaging[binding]
}

func (p *bindGroupProvider) SamplerStaging(binding int) *common.SamplerStagingData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.samplerStaging[binding]
}

func (p *bindGroupProvider) ClearStaging() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.textureStaging)
	clear(p.samplerStaging)
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.indexCount
}

func (p *bindGroupProvider) SetMeshBuffers(vertex, index *wgpu.Buffer, indexCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertexBuffer = vertex
	p.indexBuffer = index
	p.indexCount = indexCount
}

func (p *bindGroupProvider) InstanceBuffer() *wgpu.Buffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.instanceBuffer
}

func (p *bindGroupProvider) InstanceCapacity() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.instanceCapacity
}

func (p *bindGroupProvider) SetInstanceBuffer(buf *wgpu.Buffer, capacity int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.instanceBuffer != nil && p.instanceBuffer != buf {
		p.instanceBuffer.Release()
	}
	p.instanceBuffer = buf
	p.instanceCapacity = capacity
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		tv.Release()
		delete(p.textureViews, i)
	}
	for i, t := range p.textures {
		t.Release()
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		s.Release()
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		buf.Release()
		delete(p.buffers, i)
	}
	for _, buf := range []**wgpu.Buffer{&p.vertexBuffer, &p.indexBuffer, &p.instanceBuffer} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	p.indexCount = 0
	p.instanceCapacity = 0
}

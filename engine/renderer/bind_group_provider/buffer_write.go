package bind_group_provider

// BufferTarget selects which buffer of a provider a BufferWrite lands in.
type BufferTarget int

const (
	// TargetBinding writes the buffer at BufferWrite.Binding.
	TargetBinding BufferTarget = iota
	// TargetInstance writes the render item's instance buffer.
	TargetInstance
)

// BufferWrite describes a single queued write into one of a provider's buffers.
type BufferWrite struct {
	Provider BindGroupProvider
	Target   BufferTarget
	Binding  int
	Offset   uint64
	Data     []byte
}

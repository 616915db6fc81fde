package bind_group_provider

// VertexBufferBinding addresses a provider's vertex buffer instead of a uniform binding.
const VertexBufferBinding = -1

// BufferWrite is one queued upload into a provider's buffer. Binding selects the uniform
// buffer, or the vertex buffer when set to VertexBufferBinding.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

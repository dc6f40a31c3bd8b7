// Package pool provides byte buffer pooling for hot paths that assemble
// transient byte images, such as snapshot serialization.
package pool

import "sync"

const (
	// ImageBufferDefaultSize is the initial capacity of pooled image
	// buffers, covering stores of roughly 800 records without growth.
	ImageBufferDefaultSize = 4 * 1024

	// ImageBufferMaxThreshold is the largest buffer capacity the pool
	// retains. Buffers grown beyond it are dropped on Put so one huge
	// store does not pin memory forever.
	ImageBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a reusable byte slice wrapper. Producers append to B
// directly and hand the buffer back to its pool when the content is no
// longer referenced.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates an empty ByteBuffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its allocated capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the current content length.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the current capacity.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// ByteBufferPool is a sync.Pool of ByteBuffers with an upper retention
// threshold.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers with the given
// default capacity, retaining returned buffers only up to maxThreshold
// bytes of capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse. Nil buffers and buffers
// grown past the retention threshold are dropped.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var imagePool = NewByteBufferPool(ImageBufferDefaultSize, ImageBufferMaxThreshold)

// GetImageBuffer retrieves a ByteBuffer from the shared image pool.
func GetImageBuffer() *ByteBuffer {
	return imagePool.Get()
}

// PutImageBuffer returns a ByteBuffer to the shared image pool.
func PutImageBuffer(bb *ByteBuffer) {
	imagePool.Put(bb)
}

// Zstandard is the default snapshot codec. Record bodies full of small
// deltas compress very well under it, and snapshots are written far less
// often than they are read.
//
// Two implementations exist behind the same type: a cgo binding when cgo is
// available and a pure-Go fallback otherwise. Both produce standard zstd
// frames and can read each other's output.

package compress

// ZstdCompressor provides Zstandard compression for snapshot payloads.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

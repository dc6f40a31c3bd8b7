// Package compress provides the payload codecs for tslite snapshots.
//
// Four algorithms are available, selected through format.CompressionType:
//
//	Algorithm | Speed    | Ratio  | Use case
//	----------|----------|--------|----------------------------------
//	None      | -        | 1.0    | Debugging, incompressible data
//	Zstd      | Moderate | Best   | Default, archival snapshots
//	S2        | Fast     | Good   | Frequent snapshots
//	LZ4       | Fastest  | Fair   | Latency-sensitive snapshots
//
// All codecs operate on complete payloads in one call; there is no streaming
// mode. Compressed output is newly allocated and owned by the caller.
//
// Obtain a codec through the registry:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Compress(image)
//
// The Zstd codec binds to the C library through gozstd when cgo is enabled
// and falls back to the pure-Go klauspost implementation otherwise; the two
// are frame-compatible.
package compress

// Package snapshot serializes a database into a single verifiable stream
// and restores it back into a file.
//
// A snapshot captures the logical content of a store: a fresh header
// followed by every declared record, independent of any trailing partial
// or undeclared bytes the physical file may carry. The image is hashed
// with xxHash64 and compressed before it is written, so a snapshot can be
// shipped over a network or parked in object storage and still prove its
// own integrity on the way back.
//
// # Stream Layout
//
//	┌─────────────────────────── Snapshot Stream ───────────────────────────┐
//	│ Magic "TSLS" │ Version │ Compression │ Reserved │ ImageSize │ Digest  │
//	│   (4 bytes)  │ (1 byte)│  (1 byte)   │ (2 bytes)│ (8 bytes) │(8 bytes)│
//	├───────────────────────────────────────────────────────────────────────┤
//	│                        Compressed Image Payload                       │
//	└───────────────────────────────────────────────────────────────────────┘
//
// All multi-byte fields are little-endian. ImageSize and Digest describe
// the uncompressed image, so tampering with either the payload or the
// header is caught before the image is trusted.
package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/tslite/compress"
	"github.com/arloliu/tslite/endian"
	"github.com/arloliu/tslite/errs"
	"github.com/arloliu/tslite/format"
	"github.com/arloliu/tslite/internal/digest"
	"github.com/arloliu/tslite/internal/options"
	"github.com/arloliu/tslite/internal/pool"
	"github.com/arloliu/tslite/physical"
	"github.com/arloliu/tslite/section"
)

// Snapshot streams are little-endian regardless of platform.
var engine = endian.GetLittleEndianEngine()

const (
	// Magic identifies a snapshot stream.
	Magic = "TSLS"
	// Version is the snapshot format version this package writes.
	Version = 1

	// headerSize is the fixed snapshot header length in bytes.
	headerSize = 24

	// Snapshot header field offsets.
	versionOffset     = 4
	compressionOffset = 5
	imageSizeOffset   = 8
	digestOffset      = 16
)

// Info summarizes one snapshot stream.
type Info struct {
	// Origin is the origin timestamp of the captured database.
	Origin section.Timestamp
	// Records is the number of records in the image.
	Records uint64
	// Compression is the codec applied to the payload.
	Compression format.CompressionType
	// ImageSize is the uncompressed image length in bytes.
	ImageSize uint64
	// PayloadSize is the compressed payload length in bytes.
	PayloadSize uint64
	// Digest is the xxHash64 digest of the uncompressed image.
	Digest uint64
}

type config struct {
	compression format.CompressionType
}

// Option configures snapshot creation.
type Option = options.Option[*config]

// WithCompression selects the codec applied to the snapshot payload.
//
// The default is format.CompressionZstd. The option fails when the
// compression type has no registered codec.
//
// Parameters:
//   - compression: compression type for the payload
//
// Returns:
//   - Option: option to apply the compression type
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(cfg *config) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		cfg.compression = compression

		return nil
	})
}

// Write captures the logical content of db and writes one snapshot stream
// to w.
//
// The image holds a fresh header read from the file followed by every
// declared record in index order. Bytes beyond the declared records never
// enter the image, so two stores with equal logical content produce equal
// images even when one carries trailing junk. Write fails when the file
// declares more records than it physically holds; run an integrity scan
// and repair before snapshotting a suspect store.
//
// Parameters:
//   - w: destination stream
//   - db: database to capture
//   - opts: optional settings, e.g. WithCompression
//
// Returns:
//   - Info: summary of the written snapshot
//   - error: error if the database cannot be read or the stream cannot be written
func Write(w io.Writer, db *physical.DB, opts ...Option) (Info, error) {
	cfg := &config{compression: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return Info{}, err
	}

	// The buffer returns to the pool only after the stream is fully
	// written, which keeps codecs that alias their input safe.
	bb := pool.GetImageBuffer()
	defer pool.PutImageBuffer(bb)

	header, err := buildImage(db, bb)
	if err != nil {
		return Info{}, err
	}
	image := bb.Bytes()

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return Info{}, err
	}

	payload, err := codec.Compress(image)
	if err != nil {
		return Info{}, fmt.Errorf("failed to compress snapshot payload: %w", err)
	}

	sum := digest.Sum(image)

	head := make([]byte, 0, headerSize)
	head = append(head, Magic...)
	head = append(head, Version, uint8(cfg.compression), 0, 0)
	head = engine.AppendUint64(head, uint64(len(image)))
	head = engine.AppendUint64(head, sum)

	if _, err := w.Write(head); err != nil {
		return Info{}, fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return Info{}, fmt.Errorf("failed to write snapshot payload: %w", err)
	}

	return Info{
		Origin:      header.Origin,
		Records:     header.RecordCount,
		Compression: cfg.compression,
		ImageSize:   uint64(len(image)),
		PayloadSize: uint64(len(payload)),
		Digest:      sum,
	}, nil
}

// Read consumes one snapshot stream from r and returns the verified image.
//
// The stream is rejected with ErrInvalidSnapshotHeader when the header is
// short, the magic is wrong, or the compression type is unknown, with
// ErrUnsupportedSnapshotVersion for a version this package cannot read,
// with ErrSnapshotSizeMismatch when the decompressed image does not match
// the declared size, and with ErrSnapshotDigestMismatch when the image
// hash disagrees with the recorded digest. The returned image is only
// handed out after all checks pass.
//
// Parameters:
//   - r: source stream, read through EOF
//
// Returns:
//   - []byte: verified uncompressed image
//   - Info: summary of the read snapshot
//   - error: error if the stream is malformed or fails verification
func Read(r io.Reader) ([]byte, Info, error) {
	var head [headerSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshotHeader, err)
	}

	if string(head[:versionOffset]) != Magic {
		return nil, Info{}, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidSnapshotHeader, head[:versionOffset])
	}
	if head[versionOffset] != Version {
		return nil, Info{}, fmt.Errorf("%w: version %d", errs.ErrUnsupportedSnapshotVersion, head[versionOffset])
	}

	compression := format.CompressionType(head[compressionOffset])
	imageSize := engine.Uint64(head[imageSizeOffset:digestOffset])
	sum := engine.Uint64(head[digestOffset:headerSize])

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshotHeader, err)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to read snapshot payload: %w", err)
	}

	image, err := codec.Decompress(payload)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to decompress snapshot payload: %w", err)
	}

	if uint64(len(image)) != imageSize {
		return nil, Info{}, fmt.Errorf("%w: header declares %d bytes, image holds %d",
			errs.ErrSnapshotSizeMismatch, imageSize, len(image))
	}
	if digest.Sum(image) != sum {
		return nil, Info{}, errs.ErrSnapshotDigestMismatch
	}

	header, err := section.ParseHeader(image)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to parse snapshot image: %w", err)
	}

	return image, Info{
		Origin:      header.Origin,
		Records:     header.RecordCount,
		Compression: compression,
		ImageSize:   imageSize,
		PayloadSize: uint64(len(payload)),
		Digest:      sum,
	}, nil
}

// Restore reads one snapshot stream from r and materializes it as a
// database file at path.
//
// Any existing file at path is overwritten. The restored file is then
// opened through physical.Open, so the returned handle is live and opts
// apply to it the way they would on a regular open.
//
// Parameters:
//   - r: source snapshot stream
//   - path: destination database file path
//   - opts: optional settings for the restored database handle
//
// Returns:
//   - *physical.DB: open handle on the restored database
//   - error: error if the stream fails verification or the file cannot be written
func Restore(r io.Reader, path string, opts ...physical.Option) (*physical.DB, error) {
	image, _, err := Read(r)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, image, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write restored database %s: %w", path, err)
	}

	return physical.Open(path, opts...)
}

// buildImage appends the uncompressed image into bb: a fresh header
// followed by every declared record. It reads the header from the file
// rather than the cached copy, so the image reflects what the store
// actually declares.
func buildImage(db *physical.DB, bb *pool.ByteBuffer) (section.Header, error) {
	header, err := db.ReadHeader()
	if err != nil {
		return section.Header{}, err
	}

	bb.B = header.AppendTo(bb.B)
	for i := uint64(0); i < header.RecordCount; i++ {
		rec, err := db.ReadRecord(i)
		if err != nil {
			return section.Header{}, err
		}
		bb.B = rec.AppendTo(bb.B)
	}

	return header, nil
}

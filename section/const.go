package section

import "github.com/arloliu/tslite/endian"

// The file format is little-endian on every platform; all codecs in this
// package share one engine.
var engine = endian.GetLittleEndianEngine()

// Offsets and section sizes in the database file.
const (
	TimestampSize     = 7          // fixed encoded timestamp size in bytes
	HeaderSize        = 15         // fixed header size in bytes (origin timestamp + record count)
	RecordSize        = 5          // fixed record size in bytes (time offset + value)
	RecordCountOffset = 7          // byte offset of the record count field within the header
	BodyOffset        = HeaderSize // byte offset where the record body starts
)

// RecordOffset returns the byte offset of the record slot at the given index.
//
// The record body is a dense array of fixed-size slots, so the offset is a
// closed-form expression over the index.
//
// Parameters:
//   - index: Zero-based record index
//
// Returns:
//   - int64: Byte offset of the slot, suitable for ReadAt/WriteAt
func RecordOffset(index uint64) int64 {
	return BodyOffset + RecordSize*int64(index) //nolint: gosec
}

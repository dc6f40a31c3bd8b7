// Package endian provides byte order utilities for binary encoding and decoding.
//
// It combines the ByteOrder and AppendByteOrder interfaces of encoding/binary
// into a single EndianEngine interface so codecs can both read fixed-width
// integers in place and append them to growing buffers through one value.
//
// The tslite file format is little-endian throughout, so library code obtains
// its engine with GetLittleEndianEngine. The big-endian engine exists for
// completeness and for tests that verify byte-level layout.
package endian

import "encoding/binary"

// EndianEngine is the byte order used by tslite codecs. It is satisfied by
// binary.LittleEndian and binary.BigEndian from the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Package section defines the on-disk binary structures and layout constants
// of the tslite database file format.
//
// This package provides the fixed-size types that map one-to-one onto file
// bytes: the header at the start of every file, the record slots following
// it, and the compact timestamp embedded in the header. All multi-byte
// fields are little-endian on every platform.
//
// # File Structure
//
// A database file is a 15-byte header followed by a dense array of 5-byte
// record slots:
//
//	┌────────────────────────────┐
//	│ Header (15 bytes, fixed)   │
//	│  - Origin (7 bytes)        │
//	│  - RecordCount (8 bytes)   │
//	├────────────────────────────┤
//	│ Record 0 (5 bytes)         │
//	├────────────────────────────┤
//	│ Record 1 (5 bytes)         │
//	├────────────────────────────┤
//	│ ...                        │
//	└────────────────────────────┘
//
// Record i lives at byte offset 15 + 5*i; RecordOffset computes it. The
// formula is an invariant of the format and never changes.
//
// # Header Format
//
// Header (15 bytes):
//
//	Bytes  | Field       | Type   | Description
//	-------|-------------|--------|----------------------------------
//	0-6    | Origin      | 7 B    | Time zero for all record offsets
//	7-14   | RecordCount | uint64 | Number of stored records
//
// # Timestamp Format
//
// Timestamp (7 bytes, always UTC):
//
//	Bytes  | Field  | Type   | Description
//	-------|--------|--------|----------------------------------
//	0-1    | Year   | uint16 | Full calendar year
//	2      | Month  | uint8  | 1-12
//	3      | Day    | uint8  | 1-31, month-length checked
//	4      | Hour   | uint8  | 0-23
//	5      | Minute | uint8  | 0-59
//	6      | Second | uint8  | 0-59
//
// # Record Format
//
// Record (5 bytes):
//
//	Bytes  | Field      | Type   | Description
//	-------|------------|--------|----------------------------------
//	0-3    | TimeOffset | uint32 | Seconds since the file's origin
//	4      | Value      | uint8  | Sample value
//
// A uint32 offset caps representable time at roughly 136 years past the
// origin.
//
// # Usage Examples
//
// Encoding:
//
//	h := section.Header{Origin: section.TimestampOf(time.Now()), RecordCount: 0}
//	buf := h.Bytes()
//
// Parsing:
//
//	h, err := section.ParseHeader(data)
//	if err != nil {
//	    // data held fewer than 15 bytes
//	}
//
// All types in this package are immutable value types and safe for
// concurrent use. Most users should interact with the physical package
// instead of using section directly.
package section

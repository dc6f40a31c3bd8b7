// Package errs defines the sentinel errors shared across tslite packages.
//
// All fallible operations either return one of these sentinels (possibly
// wrapped with additional context via fmt.Errorf and %w) or propagate the
// underlying I/O error from the operating system. Callers should match with
// errors.Is rather than comparing error strings.
package errs

import "errors"

// Wire format errors, returned by the section codecs and by store operations
// that interpret short reads as corruption.
var (
	// ErrInvalidTimestampSize indicates the input holds fewer than the 7 bytes
	// of an encoded timestamp.
	ErrInvalidTimestampSize = errors.New("invalid timestamp size")

	// ErrInvalidHeaderSize indicates the input holds fewer than the 15 bytes
	// of an encoded file header.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidRecordSize indicates the input holds fewer than the 5 bytes of
	// an encoded record.
	ErrInvalidRecordSize = errors.New("invalid record size")
)

// Timestamp arithmetic errors.
var (
	// ErrNegativeOffset indicates an offset computation whose target timestamp
	// precedes the base timestamp. Offsets are unsigned; the operation fails
	// instead of wrapping.
	ErrNegativeOffset = errors.New("timestamp precedes offset base")

	// ErrOffsetOverflow indicates an offset computation whose result exceeds
	// the uint32 range (more than ~136 years past the base timestamp).
	ErrOffsetOverflow = errors.New("timestamp offset exceeds uint32 range")

	// ErrInvalidTimestamp indicates a timestamp whose fields fail calendar
	// validation (month range, month length, leap rules, time-of-day ranges).
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Store errors.
var (
	// ErrIndexOutOfBound indicates a record index whose 5-byte slot does not
	// fully exist within the backing file.
	ErrIndexOutOfBound = errors.New("record index out of bound")

	// ErrOutOfOrderAppend indicates a strict-mode append whose time offset is
	// below the last stored record's offset.
	ErrOutOfOrderAppend = errors.New("append violates record order")

	// ErrDatabaseLocked indicates the advisory file lock is held by another
	// process.
	ErrDatabaseLocked = errors.New("database file is locked")
)

// Snapshot errors.
var (
	// ErrInvalidSnapshotHeader indicates a snapshot stream that is too short
	// or does not start with the snapshot magic number.
	ErrInvalidSnapshotHeader = errors.New("invalid snapshot header")

	// ErrUnsupportedSnapshotVersion indicates a snapshot written by an
	// incompatible format version.
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrSnapshotSizeMismatch indicates a decompressed snapshot image whose
	// length differs from the length recorded in the snapshot header.
	ErrSnapshotSizeMismatch = errors.New("snapshot image size mismatch")

	// ErrSnapshotDigestMismatch indicates a snapshot image whose content hash
	// differs from the digest recorded in the snapshot header.
	ErrSnapshotDigestMismatch = errors.New("snapshot digest mismatch")
)

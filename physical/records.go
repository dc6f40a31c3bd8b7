package physical

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/tslite/errs"
	"github.com/arloliu/tslite/internal/digest"
	"github.com/arloliu/tslite/section"
)

// maxRecordIndex is the largest index whose slot end still fits in an int64
// file offset.
const maxRecordIndex = (math.MaxInt64 - section.BodyOffset) / section.RecordSize

// readAllPrealloc caps the initial ReadAll allocation so a hostile header
// count cannot force a huge up-front allocation.
const readAllPrealloc = 1024

// ReadRecord reads the record at the given zero-based index.
//
// The slot must exist in full: the call fails with errs.ErrIndexOutOfBound
// when 15 + 5*(index+1) exceeds the current file size. The check consults
// the file, not the cached header, so records beyond the declared count are
// readable when the file physically holds them.
//
// Parameters:
//   - index: Zero-based record index
//
// Returns:
//   - section.Record: Stored record
//   - error: errs.ErrIndexOutOfBound or a wrapped I/O error
func (db *DB) ReadRecord(index uint64) (section.Record, error) {
	if err := db.ensureOpen(); err != nil {
		return section.Record{}, err
	}
	if err := db.checkRecordIndex(index); err != nil {
		return section.Record{}, err
	}

	var buf [section.RecordSize]byte
	if _, err := db.file.ReadAt(buf[:], section.RecordOffset(index)); err != nil {
		return section.Record{}, fmt.Errorf("failed to read record %d: %w", index, err)
	}

	return section.ParseRecord(buf[:])
}

// AppendRecord appends one record to the tail of the file.
//
// The write sequence is: seek to end of file, write the 5-byte slot, flush,
// then bump the on-disk record count at byte offset 7 and flush again. The
// cached header count is updated last, so a crash between the two flushes
// leaves an extra slot the next Check reports as a count mismatch.
//
// Ordering is NOT validated by default: the caller upholds the convention
// that offsets never decrease, and violations surface only in a later
// Check. Construct the DB with WithStrictAppend to reject out-of-order
// records up front.
//
// Parameters:
//   - rec: Record to append
//
// Returns:
//   - error: errs.ErrOutOfOrderAppend in strict mode, or a wrapped I/O error
func (db *DB) AppendRecord(rec section.Record) error {
	if err := db.ensureOpen(); err != nil {
		return err
	}

	if db.strictAppend {
		if err := db.checkAppendOrder(rec); err != nil {
			return err
		}
	}

	if _, err := db.file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of %s: %w", db.path, err)
	}
	if _, err := db.file.Write(rec.Bytes()); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	if err := db.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync appended record: %w", err)
	}

	return db.bumpRecordCount(1)
}

// AppendNow appends a record stamped with the current clock time.
//
// The time offset is the whole-second distance from the file's origin to
// the clock's now. A clock behind the origin fails with
// errs.ErrNegativeOffset; a distance beyond the uint32 range fails with
// errs.ErrOffsetOverflow. Subject to the same ordering behavior as
// AppendRecord, plus the clock's own monotonicity.
//
// Parameters:
//   - value: Sample byte to store
//
// Returns:
//   - error: Offset computation error, strict-mode ordering error, or a
//     wrapped I/O error
func (db *DB) AppendNow(value byte) error {
	offset, err := db.header.Origin.OffsetTo(section.TimestampOf(db.clock()))
	if err != nil {
		return err
	}

	return db.AppendRecord(section.Record{TimeOffset: offset, Value: value})
}

// UpdateRecord overwrites the value byte of the record at index, leaving
// its time offset untouched, and flushes the write.
//
// Parameters:
//   - index: Zero-based record index, same bound rule as ReadRecord
//   - value: Replacement sample byte
//
// Returns:
//   - error: errs.ErrIndexOutOfBound or a wrapped I/O error
func (db *DB) UpdateRecord(index uint64, value byte) error {
	if err := db.ensureOpen(); err != nil {
		return err
	}
	if err := db.checkRecordIndex(index); err != nil {
		return err
	}

	valueOffset := section.RecordOffset(index) + section.RecordSize - 1
	if _, err := db.file.WriteAt([]byte{value}, valueOffset); err != nil {
		return fmt.Errorf("failed to update record %d: %w", index, err)
	}
	if err := db.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync updated record: %w", err)
	}

	return nil
}

// ReadAll reads every record the cached header declares, in index order.
func (db *DB) ReadAll() ([]section.Record, error) {
	if err := db.ensureOpen(); err != nil {
		return nil, err
	}

	count := db.header.RecordCount
	records := make([]section.Record, 0, min(count, readAllPrealloc))
	for i := uint64(0); i < count; i++ {
		rec, err := db.ReadRecord(i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// Digest returns the xxHash64 fingerprint of the file's logical content:
// the header as stored on disk followed by every declared record slot in
// index order.
//
// Trailing bytes beyond the declared records never contribute, so two files
// with equal logical content hash identically. The header is re-read from
// disk, making the digest a cheap ground-truth comparator when external
// mutation is suspected.
func (db *DB) Digest() (uint64, error) {
	header, err := db.ReadHeader()
	if err != nil {
		return 0, err
	}

	hasher := digest.New()
	_, _ = hasher.Write(header.Bytes())
	for i := uint64(0); i < header.RecordCount; i++ {
		rec, err := db.ReadRecord(i)
		if err != nil {
			return 0, err
		}
		_, _ = hasher.Write(rec.Bytes())
	}

	return hasher.Sum64(), nil
}

// checkRecordIndex verifies that the slot at index exists in full.
func (db *DB) checkRecordIndex(index uint64) error {
	if index >= maxRecordIndex {
		return fmt.Errorf("%w: index %d", errs.ErrIndexOutOfBound, index)
	}

	info, err := db.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat database file %s: %w", db.path, err)
	}
	if section.RecordOffset(index+1) > info.Size() {
		return fmt.Errorf("%w: index %d", errs.ErrIndexOutOfBound, index)
	}

	return nil
}

// checkAppendOrder enforces strict-mode ordering against the last declared
// record, before anything touches the file tail.
func (db *DB) checkAppendOrder(rec section.Record) error {
	count := db.header.RecordCount
	if count == 0 {
		return nil
	}

	last, err := db.ReadRecord(count - 1)
	if err != nil {
		return err
	}
	if rec.TimeOffset < last.TimeOffset {
		return fmt.Errorf("%w: offset %d below last offset %d",
			errs.ErrOutOfOrderAppend, rec.TimeOffset, last.TimeOffset)
	}

	return nil
}

// bumpRecordCount adds delta to the record count, writing the on-disk field
// and updating the cache only after a successful flush.
func (db *DB) bumpRecordCount(delta uint64) error {
	count := db.header.RecordCount + delta

	var buf [8]byte
	engine.PutUint64(buf[:], count)
	if _, err := db.file.WriteAt(buf[:], section.RecordCountOffset); err != nil {
		return fmt.Errorf("failed to write record count: %w", err)
	}
	if err := db.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync record count: %w", err)
	}
	db.header.RecordCount = count

	return nil
}

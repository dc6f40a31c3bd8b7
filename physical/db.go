package physical

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/arloliu/tslite/endian"
	"github.com/arloliu/tslite/errs"
	"github.com/arloliu/tslite/internal/options"
	"github.com/arloliu/tslite/section"
)

// The file format is little-endian on every platform.
var engine = endian.GetLittleEndianEngine()

// DB is a file-backed time-series store. It owns a path, an optional open
// file handle, and a cache of the header read at create or open time.
//
// The handle is acquired lazily: every operation that needs the file opens
// it first when the DB is not already open. The cached header and the
// on-disk header can diverge when the file is mutated externally; callers
// needing ground truth must use ReadHeader or Digest.
//
// A DB assumes a single exclusive owner. It holds no internal mutex and
// must not be shared between goroutines; see WithFileLock for the optional
// cross-process guard.
type DB struct {
	path   string
	file   *os.File
	header section.Header

	origin       *section.Timestamp
	strictAppend bool
	fileLock     bool
	flk          *flock.Flock
	clock        func() time.Time
}

// newDB builds the DB skeleton and applies options before any file I/O.
func newDB(path string, opts ...Option) (*DB, error) {
	db := &DB{
		path:  path,
		clock: time.Now,
	}
	if err := options.Apply(db, opts...); err != nil {
		return nil, err
	}

	return db, nil
}

// Create creates a new database file at path with an empty record body.
//
// This is a destructive operation: any existing file at path is overwritten
// without warning. Callers must guard against accidental overwrite
// externally, or use OpenOrCreate to keep existing data.
//
// The header is written with a zero record count and the origin from
// WithOrigin, falling back to the clock's current UTC time truncated to
// whole seconds. The returned DB holds no open handle; the first operation
// that needs the file opens it lazily.
//
// Parameters:
//   - path: Database file path
//   - opts: Optional configuration (WithOrigin, WithStrictAppend, ...)
//
// Returns:
//   - *DB: Store backed by the fresh file
//   - error: Option validation error or wrapped file I/O error
func Create(path string, opts ...Option) (*DB, error) {
	db, err := newDB(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := db.writeFreshFile(); err != nil {
		return nil, err
	}

	return db, nil
}

// Open opens an existing database file at path and fails when it is
// absent.
//
// The header is parsed from the file's first 15 bytes; fewer than 15 bytes
// is treated as corruption and fails with a wrapped
// errs.ErrInvalidHeaderSize. Field ranges and record count consistency are
// NOT validated here; use Check for that. The returned DB keeps the handle
// open, and WithOrigin is silently ignored.
//
// Parameters:
//   - path: Database file path
//   - opts: Optional configuration
//
// Returns:
//   - *DB: Store backed by the existing file
//   - error: Option validation error or wrapped file I/O error
func Open(path string, opts ...Option) (*DB, error) {
	db, err := newDB(path, opts...)
	if err != nil {
		return nil, err
	}

	if err := db.Open(); err != nil {
		return nil, err
	}

	header, err := db.ReadHeader()
	if err != nil {
		_ = db.Close()

		return nil, err
	}
	db.header = header

	return db, nil
}

// OpenOrCreate opens the database file at path, creating it when absent.
//
// An existing file is opened through Open, header parsing included. A
// missing file is created through Create, so the returned DB holds no open
// handle in that case.
//
// Parameters:
//   - path: Database file path
//   - opts: Optional configuration
//
// Returns:
//   - *DB: Store backed by the file
//   - error: Option validation error or wrapped file I/O error
func OpenOrCreate(path string, opts ...Option) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat database file %s: %w", path, err)
		}

		return Create(path, opts...)
	}

	return Open(path, opts...)
}

// writeFreshFile truncates or creates the file and writes a header with a
// zero record count, through a transient handle.
func (db *DB) writeFreshFile() error {
	origin := section.TimestampOf(db.clock())
	if db.origin != nil {
		origin = *db.origin
	}
	db.header = section.Header{Origin: origin}

	file, err := os.OpenFile(db.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create database file %s: %w", db.path, err)
	}
	if _, err := file.Write(db.header.Bytes()); err != nil {
		_ = file.Close()

		return fmt.Errorf("failed to write database header: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close database file %s: %w", db.path, err)
	}

	return nil
}

// Open acquires the read+write file handle when none is held. Opening an
// already-open DB is a no-op.
//
// With WithFileLock the advisory lock is acquired first; when another
// process holds it, Open fails with errs.ErrDatabaseLocked and the DB stays
// closed.
func (db *DB) Open() error {
	if db.file != nil {
		return nil
	}

	if db.fileLock {
		if err := db.acquireLock(); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(db.path, os.O_RDWR, 0)
	if err != nil {
		db.releaseLock()

		return fmt.Errorf("failed to open database file %s: %w", db.path, err)
	}
	db.file = file

	return nil
}

// Close flushes pending writes to stable storage, then releases the handle
// and the advisory lock. Closing an already-closed DB is a no-op.
//
// When the flush fails the handle stays open and the error is returned, so
// the caller can retry.
func (db *DB) Close() error {
	if db.file == nil {
		return nil
	}

	if err := db.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync database file %s: %w", db.path, err)
	}

	err := db.file.Close()
	db.file = nil
	db.releaseLock()
	if err != nil {
		return fmt.Errorf("failed to close database file %s: %w", db.path, err)
	}

	return nil
}

// ensureOpen is the guarded access step preceding every file operation.
func (db *DB) ensureOpen() error {
	if db.file != nil {
		return nil
	}

	return db.Open()
}

// acquireLock takes the sidecar advisory lock, creating the lock file on
// first use.
func (db *DB) acquireLock() error {
	if db.flk == nil {
		db.flk = flock.New(db.path + ".lock")
	}

	locked, err := db.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire file lock %s: %w", db.flk.Path(), err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseLocked, db.path)
	}

	return nil
}

func (db *DB) releaseLock() {
	if db.flk != nil {
		_ = db.flk.Unlock()
	}
}

// Header returns the header cached at create or open time. It does not
// touch the file and can lag behind external mutation.
func (db *DB) Header() section.Header {
	return db.header
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// ReadHeader re-reads the 15-byte header directly from disk, independent of
// the cached copy.
//
// Returns:
//   - section.Header: Header as currently stored in the file
//   - error: Wrapped errs.ErrInvalidHeaderSize when the file holds fewer
//     than 15 bytes, or a wrapped I/O error
func (db *DB) ReadHeader() (section.Header, error) {
	if err := db.ensureOpen(); err != nil {
		return section.Header{}, err
	}

	var buf [section.HeaderSize]byte
	if _, err := db.file.ReadAt(buf[:], 0); err != nil {
		if errors.Is(err, io.EOF) {
			return section.Header{}, fmt.Errorf("%w: file %s holds fewer than %d bytes",
				errs.ErrInvalidHeaderSize, db.path, section.HeaderSize)
		}

		return section.Header{}, fmt.Errorf("failed to read database header: %w", err)
	}

	return section.ParseHeader(buf[:])
}

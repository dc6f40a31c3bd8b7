package physical

import (
	"fmt"
	"time"

	"github.com/arloliu/tslite/errs"
	"github.com/arloliu/tslite/internal/options"
	"github.com/arloliu/tslite/section"
)

// Option represents a functional option for configuring a DB.
// This is a type alias for the generic Option type specialized for DB.
type Option = options.Option[*DB]

// WithOrigin fixes the origin timestamp written into a newly created file.
//
// Without this option a new file takes the configured clock's current UTC
// time, truncated to whole seconds. OpenOrCreate silently ignores the option
// when the file already exists; the stored origin always wins.
//
// The timestamp must pass calendar validation, otherwise construction fails
// with errs.ErrInvalidTimestamp.
func WithOrigin(origin section.Timestamp) Option {
	return options.New(func(db *DB) error {
		if !origin.IsValid() {
			return fmt.Errorf("%w: %s", errs.ErrInvalidTimestamp, origin)
		}
		db.origin = &origin

		return nil
	})
}

// WithStrictAppend makes AppendRecord reject a record whose time offset is
// strictly below the last stored record's offset, failing with
// errs.ErrOutOfOrderAppend before anything is written. Equal offsets are
// allowed.
//
// The default mode performs no ordering validation at all; disorder is only
// found later by Check. Strict mode trades one extra record read per append
// for the guarantee.
func WithStrictAppend() Option {
	return options.NoError(func(db *DB) {
		db.strictAppend = true
	})
}

// WithFileLock guards the database with a cross-process advisory lock on a
// sidecar "<path>.lock" file.
//
// The lock is acquired by Open before the data file and held until Close;
// while another process holds it, Open fails with errs.ErrDatabaseLocked.
// Create writes its header through a transient handle and is not guarded.
//
// The lock is advisory: it only excludes other tslite processes that also
// opted in, not arbitrary writers.
func WithFileLock() Option {
	return options.NoError(func(db *DB) {
		db.fileLock = true
	})
}

// WithClock replaces the wall clock consulted for default origins and for
// AppendNow. The default is time.Now.
//
// Mainly useful for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return options.NoError(func(db *DB) {
		db.clock = clock
	})
}

// Package tslite provides a minimal, append-oriented time-series store
// backed by a single binary file.
//
// TSLite is optimized for small embedded workloads: one origin timestamp,
// one unsigned byte of payload per record, and a flat file layout that can
// be inspected with a hex dump. It favors simplicity and crash legibility
// over throughput; every mutating operation is flushed to stable storage
// before it returns.
//
// # Core Features
//
//   - Single-file storage with a fixed 15-byte header and 5-byte records
//   - Second-resolution timestamps stored as offsets from a per-file origin
//   - Append, point read, point update, and full-scan operations
//   - Integrity scanning that classifies corruption without touching data
//   - In-place repair for out-of-order records
//   - Verifiable compressed snapshots for backup and transfer
//   - Optional cross-process advisory file locking
//
// # Basic Usage
//
// Creating a store and appending records:
//
//	import "github.com/arloliu/tslite"
//
//	db, err := tslite.Create("sensor.tsl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Record a value at the current time.
//	if err := db.AppendNow(42); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or append with an explicit offset from the origin.
//	err = db.AppendRecord(section.Record{TimeOffset: 3600, Value: 97})
//
// Scanning and repairing a store:
//
//	issue, err := tslite.Repair("sensor.tsl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !issue.IsNone() {
//	    log.Printf("store still unhealthy: %s", issue)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the physical
// package, simplifying the most common use cases. For fine-grained control
// use the physical package directly; the section package exposes the raw
// header, timestamp, and record codecs, and the snapshot package handles
// backup streams.
package tslite

import (
	"errors"

	"github.com/arloliu/tslite/errs"
	"github.com/arloliu/tslite/physical"
)

// Create creates a new database file at path with an empty record body.
//
// This is a destructive operation: any existing file at path is
// overwritten. The origin timestamp defaults to the current UTC time
// truncated to whole seconds; use physical.WithOrigin to pin it.
//
// Parameters:
//   - path: Database file path
//   - opts: Optional configuration functions (see physical.Option)
//
// Returns:
//   - *physical.DB: Store backed by the fresh file
//   - error: An error if the options are invalid or the file cannot be written
//
// Example:
//
//	db, err := tslite.Create("data.tsl",
//	    physical.WithOrigin(section.Timestamp{Year: 2024, Month: 1, Day: 1}),
//	)
func Create(path string, opts ...physical.Option) (*physical.DB, error) {
	return physical.Create(path, opts...)
}

// Open opens an existing database file at path, failing when it is absent.
//
// Parameters:
//   - path: Database file path
//   - opts: Optional configuration functions (see physical.Option)
//
// Returns:
//   - *physical.DB: Store backed by the existing file
//   - error: An error if the file is missing or its header is shorter than 15 bytes
func Open(path string, opts ...physical.Option) (*physical.DB, error) {
	return physical.Open(path, opts...)
}

// OpenOrCreate opens the database file at path, creating it when absent.
//
// This is the recommended entry point for most use cases: it preserves
// existing data, validates that the file is large enough to hold a header,
// and falls back to Create for a missing file.
//
// Parameters:
//   - path: Database file path
//   - opts: Optional configuration functions (see physical.Option)
//
// Returns:
//   - *physical.DB: Store backed by the file
//   - error: An error if the options are invalid or the file cannot be opened
//
// Example:
//
//	db, err := tslite.OpenOrCreate("data.tsl", physical.WithFileLock())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
func OpenOrCreate(path string, opts ...physical.Option) (*physical.DB, error) {
	return physical.OpenOrCreate(path, opts...)
}

// Check opens the database file at path, scans it for integrity issues,
// and closes it again.
//
// The scan reports the highest-priority issue it finds; a zero Issue means
// the store is healthy. A file too short to hold a header is reported as
// physical.IssueHeaderCorrupted rather than an error. Errors are reserved
// for failures to examine the file at all, such as a missing path.
//
// Parameters:
//   - path: Database file path
//
// Returns:
//   - physical.Issue: Scan verdict, zero when healthy
//   - error: An error if the file cannot be examined
func Check(path string) (physical.Issue, error) {
	db, err := Open(path)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidHeaderSize) {
			return physical.Issue{Kind: physical.IssueHeaderCorrupted}, nil
		}

		return physical.Issue{}, err
	}

	issue, err := db.Check()
	if cerr := db.Close(); cerr != nil && err == nil {
		return physical.Issue{}, cerr
	}
	if err != nil {
		return physical.Issue{}, err
	}

	return issue, nil
}

// Repair opens the database file at path, scans it, rewrites the record
// body in timestamp order when the scan reports physical.IssueUnordered,
// and returns the verdict of the final scan.
//
// Only ordering problems are repairable; any other issue is returned
// unchanged, and a store that stays unhealthy after the rewrite reports
// its remaining issue. A zero Issue means the store is healthy when Repair
// returns.
//
// Parameters:
//   - path: Database file path
//
// Returns:
//   - physical.Issue: Verdict of the final scan, zero when healthy
//   - error: An error if the file cannot be examined or rewritten
//
// Example:
//
//	issue, err := tslite.Repair("data.tsl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !issue.IsNone() {
//	    log.Printf("manual intervention needed: %s", issue)
//	}
func Repair(path string) (physical.Issue, error) {
	db, err := Open(path)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidHeaderSize) {
			return physical.Issue{Kind: physical.IssueHeaderCorrupted}, nil
		}

		return physical.Issue{}, err
	}

	issue, err := repair(db)
	if cerr := db.Close(); cerr != nil && err == nil {
		return physical.Issue{}, cerr
	}
	if err != nil {
		return physical.Issue{}, err
	}

	return issue, nil
}

func repair(db *physical.DB) (physical.Issue, error) {
	issue, err := db.Check()
	if err != nil {
		return physical.Issue{}, err
	}
	if issue.Kind != physical.IssueUnordered {
		return issue, nil
	}

	if err := db.Reorder(); err != nil {
		return physical.Issue{}, err
	}

	return db.Check()
}

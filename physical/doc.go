// Package physical implements the file-backed time-series store.
//
// A store is one flat file: a 15-byte header carrying the origin timestamp
// and record count, then a dense array of 5-byte record slots. Every write
// goes straight to the file through a durability barrier (fsync); there is
// no buffering layer, no write-ahead log, and no background work of any
// kind.
//
// # Lifecycle
//
// Create writes a fresh file destructively, Open requires an existing file
// and parses its header, and OpenOrCreate picks between them based on
// whether the file exists. The file handle is lazy: a DB acquires it the
// first time an operation needs the file and keeps it until Close. Closing
// flushes to stable storage first and is idempotent, as is opening.
//
// # Record access
//
// Records are addressed by zero-based index; index i maps to byte offset
// 15 + 5*i, a format invariant. ReadRecord and UpdateRecord require the
// slot to exist in full. AppendRecord writes to the tail and then bumps the
// on-disk count in a second flushed write.
//
// Appends do NOT validate chronological order by default. The format's
// convention that offsets never decrease is the caller's responsibility,
// and violations surface only in a later Check. WithStrictAppend opts into
// up-front rejection.
//
// # Integrity and repair
//
// Check scans the file once and reports the first problem found: a
// corrupted header, an invalid origin, an unreadable record, disordered
// offsets, or a count that disagrees with the slots physically present.
// Reorder repairs disorder by sorting all records in memory and rewriting
// the body in one flushed pass.
//
// # Concurrency
//
// Everything is synchronous and single-threaded. A DB assumes one exclusive
// owner; it carries no internal mutex and must not be shared between
// goroutines. WithFileLock adds an advisory cross-process lock at the open
// boundary for deployments where that assumption needs teeth.
//
// # Usage
//
//	db, err := physical.Create("sensor.tsl",
//	    physical.WithOrigin(section.Timestamp{Year: 2024, Month: 1, Day: 1}),
//	)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	err = db.AppendRecord(section.Record{TimeOffset: 60, Value: 22})
//	if err != nil {
//	    return err
//	}
//
//	issue, err := db.Check()
//	if err != nil {
//	    return err
//	}
//	if !issue.IsNone() {
//	    // e.g. physical.IssueUnordered: run db.Reorder()
//	}
package physical

package physical

import (
	"errors"
	"fmt"
	"slices"

	"github.com/arloliu/tslite/errs"
	"github.com/arloliu/tslite/section"
)

// Check runs one linear integrity scan over the file and reports the FIRST
// issue found, in priority order:
//
//  1. IssueHeaderCorrupted: the header cannot be read.
//  2. IssueOriginInvalid: the origin timestamp fails calendar validation.
//  3. IssueRecordCorrupted: reading some record failed with an I/O error;
//     Issue.Record carries its index.
//  4. IssueUnordered: a record's time offset is strictly below the previous
//     record's offset.
//  5. IssueMismatchCount: the declared count disagrees with the number of
//     complete slots in the file. Both directions are caught; a missing
//     slot discovered mid-scan reports the same kind, and so does the extra
//     slot left by a crash between an append's two flushes.
//  6. The zero Issue: no problem found.
//
// Because each call stops at the first issue, call Check repeatedly until
// it reports a healthy file to confirm full health.
//
// The scan works from a freshly read header, never the cache. Errors are
// reserved for failures to examine the file at all (e.g. it cannot be
// opened); everything discovered about its content arrives as an Issue.
func (db *DB) Check() (Issue, error) {
	header, err := db.ReadHeader()
	if err != nil {
		if errors.Is(err, errs.ErrInvalidHeaderSize) {
			return Issue{Kind: IssueHeaderCorrupted}, nil
		}

		return Issue{}, err
	}

	if !header.Origin.IsValid() {
		return Issue{Kind: IssueOriginInvalid}, nil
	}

	var prev uint32
	for i := uint64(0); i < header.RecordCount; i++ {
		rec, err := db.ReadRecord(i)
		if err != nil {
			if errors.Is(err, errs.ErrIndexOutOfBound) {
				return Issue{Kind: IssueMismatchCount}, nil
			}

			return Issue{Kind: IssueRecordCorrupted, Record: i}, nil
		}
		if rec.TimeOffset < prev {
			return Issue{Kind: IssueUnordered}, nil
		}
		prev = rec.TimeOffset
	}

	slots, err := db.physicalSlots()
	if err != nil {
		return Issue{}, err
	}
	if slots != header.RecordCount {
		return Issue{Kind: IssueMismatchCount}, nil
	}

	return Issue{}, nil
}

// Reorder restores chronological order by rewriting the whole record body.
//
// Every record the cached header declares is read into memory, sorted by
// time offset (ties keep no particular order; the value byte has no
// secondary key), and written back in one pass starting at byte offset 15,
// followed by a flush. The cost is O(n log n) and a full body rewrite no
// matter how few records were out of place; there is no partial repair.
func (db *DB) Reorder() error {
	records, err := db.ReadAll()
	if err != nil {
		return err
	}

	slices.SortFunc(records, func(a, b section.Record) int {
		return a.Compare(b)
	})

	body := make([]byte, 0, len(records)*section.RecordSize)
	for _, rec := range records {
		body = rec.AppendTo(body)
	}

	if _, err := db.file.WriteAt(body, section.BodyOffset); err != nil {
		return fmt.Errorf("failed to rewrite record body: %w", err)
	}
	if err := db.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync reordered body: %w", err)
	}

	return nil
}

// physicalSlots counts the complete record slots present in the file.
// Trailing bytes short of a full slot do not count.
func (db *DB) physicalSlots() (uint64, error) {
	info, err := db.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat database file %s: %w", db.path, err)
	}

	size := info.Size()
	if size <= section.BodyOffset {
		return 0, nil
	}

	return uint64(size-section.BodyOffset) / section.RecordSize, nil
}

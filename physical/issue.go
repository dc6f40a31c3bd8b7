package physical

import "fmt"

// IssueKind enumerates the problem classes the integrity scan reports.
type IssueKind uint8

const (
	// IssueNone means the scan found no problem.
	IssueNone IssueKind = iota
	// IssueHeaderCorrupted means the header cannot be read, typically
	// because the file holds fewer than 15 bytes.
	IssueHeaderCorrupted
	// IssueOriginInvalid means the origin timestamp fails calendar
	// validation.
	IssueOriginInvalid
	// IssueRecordCorrupted means reading the record at Issue.Record failed
	// with an I/O error.
	IssueRecordCorrupted
	// IssueUnordered means a record's time offset is strictly below its
	// predecessor's.
	IssueUnordered
	// IssueMismatchCount means the declared record count disagrees with the
	// number of complete slots physically present, in either direction.
	IssueMismatchCount
)

func (k IssueKind) String() string {
	switch k {
	case IssueNone:
		return "None"
	case IssueHeaderCorrupted:
		return "HeaderCorrupted"
	case IssueOriginInvalid:
		return "OriginInvalid"
	case IssueRecordCorrupted:
		return "RecordCorrupted"
	case IssueUnordered:
		return "Unordered"
	case IssueMismatchCount:
		return "MismatchCount"
	default:
		return "Unknown"
	}
}

// Issue is the outcome of one integrity scan pass. The zero value reports a
// healthy file.
//
// Record carries the offending index for IssueRecordCorrupted and is zero
// for every other kind. Issue is comparable, so scan outcomes can be tested
// with ==.
type Issue struct {
	Kind   IssueKind
	Record uint64
}

// IsNone reports whether the scan found no problem.
func (i Issue) IsNone() bool {
	return i.Kind == IssueNone
}

func (i Issue) String() string {
	if i.Kind == IssueRecordCorrupted {
		return fmt.Sprintf("%s at index %d", i.Kind, i.Record)
	}

	return i.Kind.String()
}

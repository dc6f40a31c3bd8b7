package section

import (
	"github.com/arloliu/tslite/errs"
)

// Record is a single stored sample: a time offset paired with one value
// byte. It is a fixed size of 5 bytes.
type Record struct {
	// TimeOffset is the count of whole seconds elapsed since the owning
	// file's origin timestamp. It is not a timestamp itself and has no
	// calendar meaning outside that file. Records order by this field alone.
	//
	// Offset: 0, Size: 4 bytes
	TimeOffset uint32

	// Value is the stored sample byte.
	//
	// Offset: 4, Size: 1 byte
	Value uint8
}

// Compare returns -1 if r precedes other, +1 if r follows other, and 0 if
// both carry the same time offset. The value byte never participates in
// ordering.
func (r Record) Compare(other Record) int {
	switch {
	case r.TimeOffset < other.TimeOffset:
		return -1
	case r.TimeOffset > other.TimeOffset:
		return 1
	default:
		return 0
	}
}

// Bytes returns the record as a 5-byte slice in file order.
func (r Record) Bytes() []byte {
	var b [RecordSize]byte
	engine.PutUint32(b[0:4], r.TimeOffset)
	b[4] = r.Value

	return b[:]
}

// AppendTo appends the 5-byte encoding of the record to dst and returns the
// extended slice.
func (r Record) AppendTo(dst []byte) []byte {
	dst = engine.AppendUint32(dst, r.TimeOffset)

	return append(dst, r.Value)
}

// ParseRecord parses a Record from the first 5 bytes of data.
//
// Parameters:
//   - data: Byte slice containing the encoded record (at least 5 bytes)
//
// Returns:
//   - Record: Parsed record
//   - error: errs.ErrInvalidRecordSize if data is too short
func ParseRecord(data []byte) (Record, error) {
	if len(data) < RecordSize {
		return Record{}, errs.ErrInvalidRecordSize
	}

	return Record{
		TimeOffset: engine.Uint32(data[0:4]),
		Value:      data[4],
	}, nil
}

package section

import (
	"github.com/arloliu/tslite/errs"
)

// Header is the per-file metadata block at the start of every database file.
// It is a fixed size of 15 bytes.
type Header struct {
	// Origin is the timestamp acting as time zero for every record offset in
	// the file. It is fixed at creation and never changes afterwards; the
	// file must never hold a record whose real time precedes it.
	//
	// Offset: 0, Size: 7 bytes
	Origin Timestamp

	// RecordCount is the authoritative number of records stored in the file.
	// It must always equal the number of complete record slots following the
	// header.
	//
	// Offset: 7, Size: 8 bytes
	RecordCount uint64
}

// Bytes returns the header as a 15-byte slice in file order.
func (h Header) Bytes() []byte {
	var b [HeaderSize]byte
	engine.PutUint16(b[0:2], h.Origin.Year)
	b[2] = h.Origin.Month
	b[3] = h.Origin.Day
	b[4] = h.Origin.Hour
	b[5] = h.Origin.Minute
	b[6] = h.Origin.Second
	engine.PutUint64(b[RecordCountOffset:HeaderSize], h.RecordCount)

	return b[:]
}

// AppendTo appends the 15-byte encoding of the header to dst and returns the
// extended slice.
func (h Header) AppendTo(dst []byte) []byte {
	dst = h.Origin.AppendTo(dst)

	return engine.AppendUint64(dst, h.RecordCount)
}

// ParseHeader parses a Header from the first 15 bytes of data.
//
// Only the byte count is checked; field ranges are not validated here, so a
// header with a nonsense origin parses fine. Use Timestamp.IsValid or the
// integrity scan to judge content.
//
// Parameters:
//   - data: Byte slice containing the encoded header (at least 15 bytes)
//
// Returns:
//   - Header: Parsed header
//   - error: errs.ErrInvalidHeaderSize if data is too short
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	origin, err := ParseTimestamp(data[0:TimestampSize])
	if err != nil {
		return Header{}, err
	}

	return Header{
		Origin:      origin,
		RecordCount: engine.Uint64(data[RecordCountOffset:HeaderSize]),
	}, nil
}

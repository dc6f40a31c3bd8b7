package section

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/tslite/errs"
)

// Timestamp is the compact calendar timestamp stored in the database header.
// It is a fixed size of 7 bytes and is always interpreted as UTC; there is no
// zone field.
//
// Ordering is lexicographic over (Year, Month, Day, Hour, Minute, Second),
// which matches chronological order for valid timestamps.
type Timestamp struct {
	// Year is the full calendar year, e.g. 2024.
	//
	// Offset: 0, Size: 2 bytes
	Year uint16

	// Month is the calendar month in the range 1-12.
	//
	// Offset: 2, Size: 1 byte
	Month uint8

	// Day is the day of month in the range 1-31.
	//
	// Offset: 3, Size: 1 byte
	Day uint8

	// Hour is the hour of day in the range 0-23.
	//
	// Offset: 4, Size: 1 byte
	Hour uint8

	// Minute is the minute of hour in the range 0-59.
	//
	// Offset: 5, Size: 1 byte
	Minute uint8

	// Second is the second of minute in the range 0-59.
	//
	// Offset: 6, Size: 1 byte
	Second uint8
}

// TimestampOf converts a time.Time into a Timestamp.
//
// The input is normalized to UTC and truncated to whole seconds; sub-second
// precision is discarded.
//
// Parameters:
//   - t: Wall-clock time to convert
//
// Returns:
//   - Timestamp: Calendar fields of t in UTC
func TimestampOf(t time.Time) Timestamp {
	u := t.UTC()

	return Timestamp{
		Year:   uint16(u.Year()), //nolint: gosec
		Month:  uint8(u.Month()),
		Day:    uint8(u.Day()),    //nolint: gosec
		Hour:   uint8(u.Hour()),   //nolint: gosec
		Minute: uint8(u.Minute()), //nolint: gosec
		Second: uint8(u.Second()), //nolint: gosec
	}
}

// IsValid reports whether every calendar field is within range.
//
// Month must be 1-12, Day must fit the month's actual length (February is
// leap-aware under the 4/100/400 rule), Hour must be below 24, and Minute and
// Second below 60. The check is pure and performs no I/O.
func (t Timestamp) IsValid() bool {
	if t.Month < 1 || t.Month > 12 {
		return false
	}
	if t.Day < 1 || t.Day > daysInMonth(t.Year, t.Month) {
		return false
	}

	return t.Hour < 24 && t.Minute < 60 && t.Second < 60
}

// Compare returns -1 if t precedes other, +1 if t follows other, and 0 if
// they are equal.
func (t Timestamp) Compare(other Timestamp) int {
	a, b := t.sortKey(), other.sortKey()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// sortKey packs the six fields into a single integer whose numeric order
// equals the lexicographic field order.
func (t Timestamp) sortKey() uint64 {
	return uint64(t.Year)<<40 | uint64(t.Month)<<32 | uint64(t.Day)<<24 |
		uint64(t.Hour)<<16 | uint64(t.Minute)<<8 | uint64(t.Second)
}

// AsTime converts the timestamp into a time.Time in UTC.
//
// The conversion uses the standard library's calendar normalization, so an
// invalid timestamp (e.g. February 30) yields a normalized instant rather
// than an error; call IsValid first when that matters.
func (t Timestamp) AsTime() time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// OffsetTo returns the number of whole seconds from t to other.
//
// Both timestamps are converted to absolute instants before subtracting, so
// the result accounts for month lengths and leap years.
//
// Parameters:
//   - other: Target timestamp, expected to be at or after t
//
// Returns:
//   - uint32: Seconds elapsed from t to other
//   - error: errs.ErrNegativeOffset if other precedes t,
//     errs.ErrOffsetOverflow if the distance does not fit in uint32
func (t Timestamp) OffsetTo(other Timestamp) (uint32, error) {
	secs := other.AsTime().Unix() - t.AsTime().Unix()
	if secs < 0 {
		return 0, fmt.Errorf("%w: %s precedes %s", errs.ErrNegativeOffset, other, t)
	}
	if secs > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d seconds exceeds uint32 range", errs.ErrOffsetOverflow, secs)
	}

	return uint32(secs), nil
}

// String returns the timestamp in "YYYY-MM-DD hh:mm:ss" form.
func (t Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// Bytes returns the timestamp as a 7-byte slice in file order.
func (t Timestamp) Bytes() []byte {
	var b [TimestampSize]byte
	engine.PutUint16(b[0:2], t.Year)
	b[2] = t.Month
	b[3] = t.Day
	b[4] = t.Hour
	b[5] = t.Minute
	b[6] = t.Second

	return b[:]
}

// AppendTo appends the 7-byte encoding of the timestamp to dst and returns
// the extended slice.
func (t Timestamp) AppendTo(dst []byte) []byte {
	dst = engine.AppendUint16(dst, t.Year)

	return append(dst, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// ParseTimestamp parses a Timestamp from the first 7 bytes of data.
//
// Bytes beyond the timestamp are ignored, so the slice may be a view over a
// larger buffer.
//
// Parameters:
//   - data: Byte slice containing the encoded timestamp (at least 7 bytes)
//
// Returns:
//   - Timestamp: Parsed timestamp
//   - error: errs.ErrInvalidTimestampSize if data is too short
func ParseTimestamp(data []byte) (Timestamp, error) {
	if len(data) < TimestampSize {
		return Timestamp{}, errs.ErrInvalidTimestampSize
	}

	return Timestamp{
		Year:   engine.Uint16(data[0:2]),
		Month:  data[2],
		Day:    data[3],
		Hour:   data[4],
		Minute: data[5],
		Second: data[6],
	}, nil
}

// daysInMonth returns the length of the given month, leap-aware for February.
func daysInMonth(year uint16, month uint8) uint8 {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}

		return 28
	default:
		return 0
	}
}

// isLeapYear implements the Gregorian 4/100/400 rule.
func isLeapYear(year uint16) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

package physical

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tslite/errs"
	"github.com/arloliu/tslite/section"
)

func TestDB_AppendRecord(t *testing.T) {
	t.Run("first append", func(t *testing.T) {
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin))
		require.NoError(t, err)

		rec := section.Record{TimeOffset: 60, Value: 22}
		require.NoError(t, db.AppendRecord(rec))

		got, err := db.ReadRecord(0)
		require.NoError(t, err)
		require.Equal(t, rec, got)

		header, err := db.ReadHeader()
		require.NoError(t, err)
		require.Equal(t, uint64(1), header.RecordCount)
		require.Equal(t, uint64(1), db.Header().RecordCount)

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, int64(section.HeaderSize+section.RecordSize), info.Size())

		require.NoError(t, db.Close())
	})

	t.Run("sequential appends", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			rec := section.Record{TimeOffset: uint32(i) * 60, Value: byte(i)} //nolint: gosec
			require.NoError(t, db.AppendRecord(rec))
		}
		require.Equal(t, uint64(10), db.Header().RecordCount)

		for i := 0; i < 10; i++ {
			rec, err := db.ReadRecord(uint64(i)) //nolint: gosec
			require.NoError(t, err)
			require.Equal(t, uint32(i)*60, rec.TimeOffset) //nolint: gosec
			require.Equal(t, byte(i), rec.Value)
		}

		require.NoError(t, db.Close())
	})

	t.Run("no ordering validation by default", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 100, Value: 1}))
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 50, Value: 2}))
		require.Equal(t, uint64(2), db.Header().RecordCount)

		// The disorder is there, waiting for Check to find it.
		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueUnordered}, issue)

		require.NoError(t, db.Close())
	})
}

func TestDB_StrictAppend(t *testing.T) {
	t.Run("lower offset rejected before writing", func(t *testing.T) {
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin), WithStrictAppend())
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 100, Value: 1}))

		err = db.AppendRecord(section.Record{TimeOffset: 99, Value: 2})
		require.ErrorIs(t, err, errs.ErrOutOfOrderAppend)

		// Nothing was written, neither slot nor count.
		require.Equal(t, uint64(1), db.Header().RecordCount)
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, int64(section.HeaderSize+section.RecordSize), info.Size())

		require.NoError(t, db.Close())
	})

	t.Run("equal offset allowed", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin), WithStrictAppend())
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 100, Value: 1}))
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 100, Value: 2}))
		require.NoError(t, db.Close())
	})

	t.Run("empty store accepts anything", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin), WithStrictAppend())
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 0, Value: 1}))
		require.NoError(t, db.Close())
	})
}

func TestDB_ReadRecord(t *testing.T) {
	t.Run("out of bound on empty store", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		_, err = db.ReadRecord(0)
		require.ErrorIs(t, err, errs.ErrIndexOutOfBound)
		require.NoError(t, db.Close())
	})

	t.Run("out of bound past the tail", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 1, Value: 1}))

		_, err = db.ReadRecord(1)
		require.ErrorIs(t, err, errs.ErrIndexOutOfBound)
		require.NoError(t, db.Close())
	})

	t.Run("bound follows the file not the header", func(t *testing.T) {
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 1, Value: 1}))
		require.NoError(t, db.Close())

		// A full slot beyond the declared count is readable.
		extra := section.Record{TimeOffset: 2, Value: 9}
		appendRaw(t, path, extra.Bytes())

		rec, err := db.ReadRecord(1)
		require.NoError(t, err)
		require.Equal(t, extra, rec)

		// A partial slot is not.
		appendRaw(t, path, []byte{0xAA, 0xBB})
		_, err = db.ReadRecord(2)
		require.ErrorIs(t, err, errs.ErrIndexOutOfBound)

		require.NoError(t, db.Close())
	})

	t.Run("absurd index", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		_, err = db.ReadRecord(1 << 62)
		require.ErrorIs(t, err, errs.ErrIndexOutOfBound)
		require.NoError(t, db.Close())
	})
}

func TestDB_UpdateRecord(t *testing.T) {
	t.Run("changes only the value byte", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 10, Value: 1}))
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 20, Value: 2}))

		require.NoError(t, db.UpdateRecord(0, 99))

		rec, err := db.ReadRecord(0)
		require.NoError(t, err)
		require.Equal(t, section.Record{TimeOffset: 10, Value: 99}, rec)

		// The neighbor is untouched.
		rec, err = db.ReadRecord(1)
		require.NoError(t, err)
		require.Equal(t, section.Record{TimeOffset: 20, Value: 2}, rec)

		require.NoError(t, db.Close())
	})

	t.Run("out of bound", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		require.ErrorIs(t, db.UpdateRecord(0, 1), errs.ErrIndexOutOfBound)
		require.NoError(t, db.Close())
	})
}

func TestDB_AppendNow(t *testing.T) {
	t.Run("offset from clock", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 1, 30, 0, time.UTC)
		db, err := Create(testPath(t),
			WithOrigin(testOrigin),
			WithClock(func() time.Time { return now }),
		)
		require.NoError(t, err)

		require.NoError(t, db.AppendNow(7))

		rec, err := db.ReadRecord(0)
		require.NoError(t, err)
		require.Equal(t, section.Record{TimeOffset: 90, Value: 7}, rec)
		require.NoError(t, db.Close())
	})

	t.Run("clock behind origin", func(t *testing.T) {
		now := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
		db, err := Create(testPath(t),
			WithOrigin(testOrigin),
			WithClock(func() time.Time { return now }),
		)
		require.NoError(t, err)

		require.ErrorIs(t, db.AppendNow(7), errs.ErrNegativeOffset)
		require.Equal(t, uint64(0), db.Header().RecordCount)
		require.NoError(t, db.Close())
	})
}

func TestDB_ReadAll(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		records, err := db.ReadAll()
		require.NoError(t, err)
		require.Empty(t, records)
		require.NoError(t, db.Close())
	})

	t.Run("round trip", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		want := []section.Record{
			{TimeOffset: 0, Value: 10},
			{TimeOffset: 60, Value: 20},
			{TimeOffset: 120, Value: 30},
		}
		for _, rec := range want {
			require.NoError(t, db.AppendRecord(rec))
		}

		records, err := db.ReadAll()
		require.NoError(t, err)
		require.Equal(t, want, records)
		require.NoError(t, db.Close())
	})
}

func TestDB_Digest(t *testing.T) {
	t.Run("equal content hashes equal", func(t *testing.T) {
		records := []section.Record{{TimeOffset: 1, Value: 1}, {TimeOffset: 2, Value: 2}}

		digests := make([]uint64, 0, 2)
		for i := 0; i < 2; i++ {
			db, err := Create(testPath(t), WithOrigin(testOrigin))
			require.NoError(t, err)
			for _, rec := range records {
				require.NoError(t, db.AppendRecord(rec))
			}
			d, err := db.Digest()
			require.NoError(t, err)
			digests = append(digests, d)
			require.NoError(t, db.Close())
		}
		require.Equal(t, digests[0], digests[1])
	})

	t.Run("update changes the digest", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 1, Value: 1}))

		before, err := db.Digest()
		require.NoError(t, err)

		require.NoError(t, db.UpdateRecord(0, 200))

		after, err := db.Digest()
		require.NoError(t, err)
		require.NotEqual(t, before, after)
		require.NoError(t, db.Close())
	})

	t.Run("trailing junk does not contribute", func(t *testing.T) {
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 1, Value: 1}))

		before, err := db.Digest()
		require.NoError(t, err)

		appendRaw(t, path, []byte{0xDE, 0xAD})

		after, err := db.Digest()
		require.NoError(t, err)
		require.Equal(t, before, after)
		require.NoError(t, db.Close())
	})
}

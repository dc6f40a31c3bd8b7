package physical

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tslite/section"
)

// writeTestFile builds a database file byte-for-byte, bypassing the store.
func writeTestFile(t *testing.T, path string, header section.Header, records ...section.Record) {
	t.Helper()

	data := header.Bytes()
	for _, rec := range records {
		data = rec.AppendTo(data)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDB_Check(t *testing.T) {
	t.Run("healthy empty store", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		issue, err := db.Check()
		require.NoError(t, err)
		require.True(t, issue.IsNone())
		require.NoError(t, db.Close())
	})

	t.Run("healthy populated store", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			rec := section.Record{TimeOffset: uint32(i) * 60, Value: byte(i)} //nolint: gosec
			require.NoError(t, db.AppendRecord(rec))
		}

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{}, issue)
		require.NoError(t, db.Close())
	})

	t.Run("header corrupted", func(t *testing.T) {
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin))
		require.NoError(t, err)

		truncateTo(t, path, section.HeaderSize-5)

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueHeaderCorrupted}, issue)
		require.NoError(t, db.Close())
	})

	t.Run("origin invalid", func(t *testing.T) {
		path := testPath(t)
		bad := section.Header{Origin: section.Timestamp{Year: 2024, Month: 13, Day: 40}, RecordCount: 1}
		writeTestFile(t, path, bad, section.Record{TimeOffset: 1, Value: 1})

		db, err := OpenOrCreate(path)
		require.NoError(t, err, "parsing does not validate fields")

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueOriginInvalid}, issue)
		require.NoError(t, db.Close())
	})

	t.Run("origin invalid wins over disorder", func(t *testing.T) {
		path := testPath(t)
		bad := section.Header{Origin: section.Timestamp{Year: 2024, Month: 2, Day: 30}, RecordCount: 2}
		writeTestFile(t, path, bad,
			section.Record{TimeOffset: 100, Value: 1},
			section.Record{TimeOffset: 50, Value: 2},
		)

		db, err := OpenOrCreate(path)
		require.NoError(t, err)

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueOriginInvalid}, issue)
		require.NoError(t, db.Close())
	})

	t.Run("unordered records", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 100, Value: 1}))
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 100, Value: 2}))
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 99, Value: 3}))

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueUnordered}, issue)
		require.NoError(t, db.Close())
	})

	t.Run("count mismatch extra slot", func(t *testing.T) {
		// The shape a crash leaves between an append's record write and its
		// count write.
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 1, Value: 1}))

		appendRaw(t, path, section.Record{TimeOffset: 2, Value: 2}.Bytes())

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueMismatchCount}, issue)
		require.NoError(t, db.Close())
	})

	t.Run("count mismatch missing slots", func(t *testing.T) {
		path := testPath(t)
		header := section.Header{Origin: testOrigin, RecordCount: 5}
		writeTestFile(t, path, header,
			section.Record{TimeOffset: 1, Value: 1},
			section.Record{TimeOffset: 2, Value: 2},
			section.Record{TimeOffset: 3, Value: 3},
		)

		db, err := OpenOrCreate(path)
		require.NoError(t, err)

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueMismatchCount}, issue)
		require.NoError(t, db.Close())
	})

	t.Run("trailing partial slot is not counted", func(t *testing.T) {
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 1, Value: 1}))

		appendRaw(t, path, []byte{0xAA, 0xBB})

		issue, err := db.Check()
		require.NoError(t, err)
		require.True(t, issue.IsNone())
		require.NoError(t, db.Close())
	})

	t.Run("missing file is an error not an issue", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, os.Remove(db.Path()))

		_, err = db.Check()
		require.Error(t, err)
	})
}

func TestDB_Reorder(t *testing.T) {
	t.Run("scrambled store comes back sorted", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)

		// Fully reversed: 9, 8, ..., 0, with each value tracking its offset.
		for i := 9; i >= 0; i-- {
			rec := section.Record{TimeOffset: uint32(i), Value: byte(i)} //nolint: gosec
			require.NoError(t, db.AppendRecord(rec))
		}

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueUnordered}, issue)

		require.NoError(t, db.Reorder())

		issue, err = db.Check()
		require.NoError(t, err)
		require.True(t, issue.IsNone())

		records, err := db.ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 10)
		for i, rec := range records {
			require.Equal(t, uint32(i), rec.TimeOffset) //nolint: gosec
			require.Equal(t, byte(i), rec.Value, "offset and value must move together")
		}

		require.NoError(t, db.Close())
	})

	t.Run("ordered store unchanged", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			rec := section.Record{TimeOffset: uint32(i) * 10, Value: byte(i)} //nolint: gosec
			require.NoError(t, db.AppendRecord(rec))
		}

		before, err := db.Digest()
		require.NoError(t, err)

		require.NoError(t, db.Reorder())

		after, err := db.Digest()
		require.NoError(t, err)
		require.Equal(t, before, after)
		require.NoError(t, db.Close())
	})

	t.Run("empty store", func(t *testing.T) {
		db, err := Create(testPath(t), WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.Reorder())

		issue, err := db.Check()
		require.NoError(t, err)
		require.True(t, issue.IsNone())
		require.NoError(t, db.Close())
	})

	t.Run("one issue per scan", func(t *testing.T) {
		// Disorder plus an undeclared extra slot: Check stops at the first,
		// Reorder fixes it, and the next scan surfaces the second.
		path := testPath(t)
		db, err := Create(path, WithOrigin(testOrigin))
		require.NoError(t, err)
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 100, Value: 1}))
		require.NoError(t, db.AppendRecord(section.Record{TimeOffset: 50, Value: 2}))

		appendRaw(t, path, section.Record{TimeOffset: 7, Value: 3}.Bytes())

		issue, err := db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueUnordered}, issue)

		require.NoError(t, db.Reorder())

		issue, err = db.Check()
		require.NoError(t, err)
		require.Equal(t, Issue{Kind: IssueMismatchCount}, issue)

		// The undeclared slot was outside the reordered body and survived.
		rec, err := db.ReadRecord(2)
		require.NoError(t, err)
		require.Equal(t, section.Record{TimeOffset: 7, Value: 3}, rec)

		require.NoError(t, db.Close())
	})
}

func TestIssue_String(t *testing.T) {
	require.Equal(t, "None", Issue{}.String())
	require.Equal(t, "Unordered", Issue{Kind: IssueUnordered}.String())
	require.Equal(t, "RecordCorrupted at index 3", Issue{Kind: IssueRecordCorrupted, Record: 3}.String())
	require.Equal(t, "MismatchCount", IssueMismatchCount.String())
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"backup-check/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	db := NewSQLiteDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, db.Initialize())
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close database: %v", err)
		}
	})

	return db
}

func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestSQLiteDB_SaveAndListRuns(t *testing.T) {
	db := setupTestDB(t)
	db.now = fixedClock(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := db.SaveRun(ctx, models.Outcome{
		Date:          "01/05/2024",
		Matches:       []models.Match{{Client: "Acme", FileName: "a.zip", Modified: "01/05/2024"}},
		NotFound:      []string{"Globex", "Initech"},
		ReportPath:    "relatorio_clientes.zip.xlsx",
		ReportWritten: true,
	})
	require.NoError(t, err)

	second, err := db.SaveRun(ctx, models.Outcome{
		Date:       "02/05/2024",
		NotFound:   []string{"Acme"},
		ReportPath: "relatorio_clientes.zip.xlsx",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, models.TargetDate("02/05/2024"), runs[0].Date)
	assert.Equal(t, 0, runs[0].Matches)
	assert.Empty(t, runs[0].ReportPath)
	assert.Equal(t, []string{"Acme"}, runs[0].NotFound)

	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, 1, runs[1].Matches)
	assert.Equal(t, "relatorio_clientes.zip.xlsx", runs[1].ReportPath)
	assert.Equal(t, []string{"Globex", "Initech"}, runs[1].NotFound)
	assert.True(t, runs[1].ExecutedAt.Equal(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)))
}

func TestSQLiteDB_ListRunsLimit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for range 3 {
		_, err := db.SaveRun(ctx, models.Outcome{Date: "01/05/2024"})
		require.NoError(t, err)
	}

	runs, err := db.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLiteDB_SearchMatches(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.SaveRun(ctx, models.Outcome{
		Date: "01/05/2024",
		Matches: []models.Match{
			{Client: "Acme", FileName: "acme-full.zip", Modified: "01/05/2024"},
			{Client: "Globex", FileName: "daily.zip", Modified: "01/05/2024"},
		},
		ReportWritten: true,
	})
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "Acme", want: []string{"acme-full.zip"}},
		{query: "daily", want: []string{"daily.zip"}},
		{query: ".zip", want: []string{"acme-full.zip", "daily.zip"}},
		{query: "Initech", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			records, err := db.SearchMatches(ctx, tt.query, 20)
			require.NoError(t, err)

			var got []string
			for _, r := range records {
				got = append(got, r.FileName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLiteDB_ClearAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.SaveRun(ctx, models.Outcome{
		Date:     "01/05/2024",
		Matches:  []models.Match{{Client: "Acme", FileName: "a.zip", Modified: "01/05/2024"}},
		NotFound: []string{"Globex"},
	})
	require.NoError(t, err)

	require.NoError(t, db.ClearAll(ctx))

	runs, err := db.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	records, err := db.SearchMatches(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

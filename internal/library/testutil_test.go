// internal/library/testutil_test.go
package library

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vmunix/subarr/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Apply(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

// createTestSeries creates a series for episode and subtitle tests
func createTestSeries(t *testing.T, store *Store) *Series {
	t.Helper()
	s := &Series{Title: "Breaking Bad", Path: "/tv/Breaking Bad"}
	if err := store.AddSeries(s); err != nil {
		t.Fatalf("create test series: %v", err)
	}
	return s
}

// createTestEpisode creates an episode of series for subtitle tests
func createTestEpisode(t *testing.T, store *Store, series *Series, num int) *Episode {
	t.Helper()
	e := &Episode{
		SeriesID: series.ID,
		Season:   1,
		Episode:  num,
		Title:    "Pilot",
		Path:     "/tv/Breaking Bad/S01E01.mkv",
		FileSize: 1000,
		FileID:   int64(100 + num),
	}
	if err := store.AddEpisode(e); err != nil {
		t.Fatalf("create test episode: %v", err)
	}
	return e
}

package indexer

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/vmunix/subarr/internal/indexer/mocks"
	"github.com/vmunix/subarr/internal/language"
	"github.com/vmunix/subarr/internal/library"
	"github.com/vmunix/subarr/internal/migrations"
	"github.com/vmunix/subarr/internal/pathmap"
	"github.com/vmunix/subarr/internal/policy"
	"github.com/vmunix/subarr/internal/sidecar"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(db))
	return db
}

// fixture is an indexer over a real store and a temporary library folder.
// Collaborators that touch ffprobe or the filesystem search are mocked.
type fixture struct {
	ix       *Indexer
	db       *sql.DB
	store    *library.Store
	prober   *mocks.MockProber
	searcher *mocks.MockSearcher
	dir      string
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := setupTestDB(t)
	store := library.NewStore(db)
	f := &fixture{
		db:       db,
		store:    store,
		prober:   mocks.NewMockProber(ctrl),
		searcher: mocks.NewMockSearcher(ctrl),
		dir:      t.TempDir(),
	}
	f.ix = New(Deps{
		Store:    store,
		Policies: policy.NewResolver(store, testLogger()),
		Table:    language.NewTable(language.DefaultCustom()),
		Prober:   f.prober,
		Searcher: f.searcher,
		Paths:    pathmap.New(nil),
	}, opts, testLogger())
	return f
}

// newRealFixture wires the real sidecar searcher.
func newRealFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := newFixture(t, opts)
	f.ix.searcher = sidecar.NewSearcher(f.ix.table, testLogger())
	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// addEpisode creates a series with the given profile items and one episode
// whose video file exists under f.dir.
func (f *fixture) addEpisode(t *testing.T, items []library.ProfileItem, cutoff *int, audio ...string) *library.Episode {
	t.Helper()

	series := &library.Series{Title: "Show", Path: f.dir}
	require.NoError(t, f.store.AddSeries(series))

	if items != nil {
		p := &library.Profile{Name: "Profile", Items: items, Cutoff: cutoff}
		require.NoError(t, f.store.AddProfile(p))
		require.NoError(t, f.store.AssignProfile(series.ID, &p.ID))
	}

	video := filepath.Join(f.dir, "Show.S01E01.mkv")
	writeFile(t, video, "video")

	ep := &library.Episode{
		SeriesID:       series.ID,
		Season:         1,
		Episode:        1,
		Title:          "Pilot",
		Path:           video,
		FileSize:       5,
		FileID:         1,
		AudioLanguages: audio,
	}
	require.NoError(t, f.store.AddEpisode(ep))
	return ep
}

func (f *fixture) subtitles(t *testing.T, episodeID int64) []*library.Subtitle {
	t.Helper()
	subs, err := f.store.ListSubtitles(library.SubtitleFilter{EpisodeID: &episodeID})
	require.NoError(t, err)
	return subs
}

func (f *fixture) missing(t *testing.T, episodeID int64) []string {
	t.Helper()
	ep, err := f.store.GetEpisode(episodeID)
	require.NoError(t, err)
	tags, err := library.ParseMissing(ep.MissingSubtitles)
	require.NoError(t, err)
	return tags
}

func ptr[T any](v T) *T {
	return &v
}

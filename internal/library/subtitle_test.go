package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedded(ep *Episode, track int64, lang string, forced, hi bool) *Subtitle {
	return &Subtitle{EpisodeID: ep.ID, SeriesID: ep.SeriesID, Language: lang, Forced: forced, HI: hi,
		Location: EmbeddedTrack{TrackID: track}}
}

func external(ep *Episode, path, lang string, size int64) *Subtitle {
	return &Subtitle{EpisodeID: ep.ID, SeriesID: ep.SeriesID, Language: lang,
		Location: ExternalFile{Path: path}, Size: size}
}

func TestStore_UpsertSubtitles_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)

	subs := []*Subtitle{
		embedded(ep, 2, "en", false, false),
		embedded(ep, 3, "en", false, true),
		external(ep, "/tv/S01E01.fr.srt", "fr", 500),
	}
	require.NoError(t, store.UpsertSubtitles(subs))
	first, err := store.ListSubtitles(SubtitleFilter{EpisodeID: &ep.ID})
	require.NoError(t, err)
	require.Len(t, first, 3)

	require.NoError(t, store.UpsertSubtitles(subs))
	second, err := store.ListSubtitles(SubtitleFilter{EpisodeID: &ep.ID})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStore_UpsertSubtitles_UpdatesSize(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)

	require.NoError(t, store.UpsertSubtitles([]*Subtitle{external(ep, "/tv/a.srt", "en", 100)}))
	require.NoError(t, store.UpsertSubtitles([]*Subtitle{external(ep, "/tv/a.srt", "en", 250)}))

	subs, err := store.ListSubtitles(SubtitleFilter{EpisodeID: &ep.ID})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(250), subs[0].Size)
	assert.Equal(t, "/tv/a.srt", subs[0].Path())
	assert.True(t, subs[0].IsExternal())
}

func TestStore_UpsertSubtitles_RejectsNoLocation(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)

	err := store.UpsertSubtitles([]*Subtitle{{EpisodeID: ep.ID, SeriesID: series.ID, Language: "en"}})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestStore_DeleteLegacySubtitles(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)

	_, err := db.Exec(`INSERT INTO episode_subtitles (episode_id, series_id, language) VALUES (?, ?, 'en')`, ep.ID, series.ID)
	require.NoError(t, err)
	require.NoError(t, store.UpsertSubtitles([]*Subtitle{embedded(ep, 1, "fr", false, false)}))

	subs, err := store.ListSubtitles(SubtitleFilter{EpisodeID: &ep.ID})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.True(t, subs[0].IsLegacy())

	n, err := store.DeleteLegacySubtitles(ep.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	subs, err = store.ListSubtitles(SubtitleFilter{EpisodeID: &ep.ID})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, EmbeddedTrack{TrackID: 1}, subs[0].Location)
}

func TestStore_DeleteEmbeddedSubtitlesExcept(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)

	keep := embedded(ep, 2, "en", false, false)
	require.NoError(t, store.UpsertSubtitles([]*Subtitle{
		keep,
		embedded(ep, 3, "de", false, false),
		embedded(ep, 2, "en", true, false), // same track, flags changed
		external(ep, "/tv/a.srt", "en", 10),
	}))

	n, err := store.DeleteEmbeddedSubtitlesExcept(ep.ID, []*Subtitle{keep})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	subs, err := store.ListSubtitles(SubtitleFilter{EpisodeID: &ep.ID})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, keep.Key(), subs[0].Key())
	assert.True(t, subs[1].IsExternal())

	// an empty observed set clears every embedded row
	n, err = store.DeleteEmbeddedSubtitlesExcept(ep.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_DeleteSubtitlesByPath(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)
	ep2 := createTestEpisode(t, store, series, 2)

	require.NoError(t, store.UpsertSubtitles([]*Subtitle{
		external(ep, "/tv/a.srt", "en", 10),
		external(ep, "/tv/b.srt", "fr", 10),
		external(ep2, "/tv/a.srt", "en", 10),
	}))

	n, err := store.DeleteSubtitlesByPath(ep.ID, []string{"/tv/a.srt"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.DeleteSubtitlesByPath(ep.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	other, err := store.ListSubtitles(SubtitleFilter{EpisodeID: &ep2.ID})
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestStore_ListSubtitles_Filters(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)

	require.NoError(t, store.UpsertSubtitles([]*Subtitle{
		embedded(ep, 1, "en", false, false),
		embedded(ep, 2, "fr", false, false),
	}))

	subs, err := store.ListSubtitles(SubtitleFilter{SeriesID: &series.ID, Language: ptr("fr")})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "fr", subs[0].Language)
	assert.Empty(t, subs[0].Path())
}

func TestSubtitle_Key(t *testing.T) {
	a := &Subtitle{Language: "en", Location: EmbeddedTrack{TrackID: 4}}
	b := &Subtitle{Language: "en", Location: ExternalFile{Path: "4"}}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.True(t, b.Key().External)
}

package library

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	v, err := parseLiteral(`[['en:hi', '/tv/a.srt', 1234], ("fr", None, None), [True, False, -3]]`)
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{"en:hi", "/tv/a.srt", int64(1234)},
		[]any{"fr", nil, nil},
		[]any{true, false, int64(-3)},
	}, v)

	_, err = parseLiteral(`['en'] junk`)
	assert.Error(t, err)
	_, err = parseLiteral(`['unterminated]`)
	assert.Error(t, err)
}

func TestStore_ImportLegacySubtitles(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep1 := createTestEpisode(t, store, series, 1)
	ep2 := createTestEpisode(t, store, series, 2)
	ep3 := createTestEpisode(t, store, series, 3)

	_, err := db.Exec("UPDATE episodes SET subtitles = ? WHERE id = ?",
		`[['en:hi', '/tv/S01E01.en.hi.srt', 1234], ['fr:forced', None, None], ['de', '/tv/S01E01.de.srt', 99]]`, ep1.ID)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE episodes SET subtitles = 'not a list' WHERE id = ?", ep2.ID)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE episodes SET subtitles = '[]' WHERE id = ?", ep3.ID)
	require.NoError(t, err)

	imported, skipped, err := store.ImportLegacySubtitles()
	require.NoError(t, err)
	assert.Equal(t, 3, imported)
	assert.Equal(t, []int64{ep2.ID}, skipped)

	subs, err := store.ListSubtitles(SubtitleFilter{EpisodeID: &ep1.ID})
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "en", subs[0].Language)
	assert.True(t, subs[0].HI)
	assert.Equal(t, int64(1234), subs[0].Size)
	assert.Equal(t, "/tv/S01E01.en.hi.srt", subs[0].Path())
	assert.True(t, subs[1].Forced)
	assert.True(t, subs[1].IsLegacy())
	assert.Equal(t, "de", subs[2].Language)

	var raw sql.NullString
	require.NoError(t, db.QueryRow("SELECT subtitles FROM episodes WHERE id = ?", ep1.ID).Scan(&raw))
	assert.False(t, raw.Valid)

	// second run finds nothing new
	imported, _, err = store.ImportLegacySubtitles()
	require.NoError(t, err)
	assert.Zero(t, imported)
}

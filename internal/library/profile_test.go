package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddProfile(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	p := &Profile{
		Name:   "English + French",
		Cutoff: ptr(2),
		Items: []ProfileItem{
			{Language: "en"},
			{Language: "fr", HI: true},
			{ID: 9, Language: "de", AudioExclude: true},
		},
	}
	require.NoError(t, store.AddProfile(p))
	assert.NotZero(t, p.ID)

	got, err := store.GetProfile(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "English + French", got.Name)
	require.NotNil(t, got.Cutoff)
	assert.Equal(t, 2, *got.Cutoff)
	require.Len(t, got.Items, 3)
	assert.Equal(t, 1, got.Items[0].ID)
	assert.Equal(t, 2, got.Items[1].ID)
	assert.True(t, got.Items[1].HI)
	assert.Equal(t, 9, got.Items[2].ID)
	assert.True(t, got.Items[2].AudioExclude)
}

func TestStore_AddProfile_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	require.NoError(t, store.AddProfile(&Profile{Name: "dup"}))
	err := store.AddProfile(&Profile{Name: "dup"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStore_AddProfile_DuplicateItemRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	err := store.AddProfile(&Profile{Name: "bad", Items: []ProfileItem{{ID: 1, Language: "en"}, {ID: 1, Language: "fr"}}})
	assert.ErrorIs(t, err, ErrDuplicate)

	profiles, err := store.ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestStore_ListProfiles(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	require.NoError(t, store.AddProfile(&Profile{Name: "a", Items: []ProfileItem{{Language: "en"}}}))
	require.NoError(t, store.AddProfile(&Profile{Name: "b", Items: []ProfileItem{{Language: "fr"}, {Language: "es"}}}))

	profiles, err := store.ListProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Len(t, profiles[1].Items, 2)
	assert.Nil(t, profiles[0].Cutoff)
}

func TestStore_AssignProfile(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	series := createTestSeries(t, store)
	ep := createTestEpisode(t, store, series, 1)

	p := &Profile{Name: "en", Items: []ProfileItem{{Language: "en"}}}
	require.NoError(t, store.AddProfile(p))

	id, err := store.EpisodeProfileID(ep.ID)
	require.NoError(t, err)
	assert.Nil(t, id)

	require.NoError(t, store.AssignProfile(series.ID, &p.ID))
	id, err = store.EpisodeProfileID(ep.ID)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, p.ID, *id)

	require.NoError(t, store.DeleteProfile(p.ID))
	id, err = store.EpisodeProfileID(ep.ID)
	require.NoError(t, err)
	assert.Nil(t, id, "deleting the profile leaves the series without one")

	assert.ErrorIs(t, store.AssignProfile(999, nil), ErrNotFound)
	_, err = store.EpisodeProfileID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

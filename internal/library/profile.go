package library

import (
	"fmt"
)

func addProfile(q querier, p *Profile) error {
	result, err := q.Exec("INSERT INTO profiles (name, cutoff) VALUES (?, ?)", p.Name, p.Cutoff)
	if err != nil {
		return fmt.Errorf("insert profile: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	p.ID = id

	for i := range p.Items {
		item := &p.Items[i]
		if item.ID == 0 {
			item.ID = i + 1
		}
		_, err := q.Exec(`
			INSERT INTO profile_items (profile_id, item_id, position, language, forced, hi, audio_exclude, audio_only_include)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, item.ID, i, item.Language, item.Forced, item.HI, item.AudioExclude, item.AudioOnlyInclude,
		)
		if err != nil {
			return fmt.Errorf("insert profile item %d: %w", item.ID, mapSQLiteError(err))
		}
	}
	return nil
}

// AddProfile inserts a profile with its items. Items without an ID are
// numbered by position starting at 1. Sets ID on the struct.
func (s *Store) AddProfile(p *Profile) error {
	return s.InTx(func(tx *Tx) error { return tx.AddProfile(p) })
}

// AddProfile inserts a profile with its items within a transaction.
func (t *Tx) AddProfile(p *Profile) error { return addProfile(t.tx, p) }

func getProfile(q querier, id int64) (*Profile, error) {
	p := &Profile{}
	err := q.QueryRow("SELECT id, name, cutoff FROM profiles WHERE id = ?", id).Scan(&p.ID, &p.Name, &p.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, mapSQLiteError(err))
	}
	items, err := profileItems(q, id)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

func profileItems(q querier, profileID int64) ([]ProfileItem, error) {
	rows, err := q.Query(`
		SELECT item_id, language, forced, hi, audio_exclude, audio_only_include
		FROM profile_items WHERE profile_id = ? ORDER BY position`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list profile items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []ProfileItem
	for rows.Next() {
		var it ProfileItem
		if err := rows.Scan(&it.ID, &it.Language, &it.Forced, &it.HI, &it.AudioExclude, &it.AudioOnlyInclude); err != nil {
			return nil, fmt.Errorf("scan profile item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile items: %w", err)
	}
	return items, nil
}

// GetProfile retrieves a profile and its ordered items.
// Returns ErrNotFound if the profile does not exist.
func (s *Store) GetProfile(id int64) (*Profile, error) { return getProfile(s.db, id) }

// GetProfile retrieves a profile within a transaction.
func (t *Tx) GetProfile(id int64) (*Profile, error) { return getProfile(t.tx, id) }

func listProfiles(q querier) ([]*Profile, error) {
	rows, err := q.Query("SELECT id FROM profiles ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	// Items are loaded after the cursor is closed; a single-connection pool
	// cannot serve a nested query.
	profiles := make([]*Profile, 0, len(ids))
	for _, id := range ids {
		p, err := getProfile(q, id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// ListProfiles returns all profiles with their items, ordered by ID.
func (s *Store) ListProfiles() ([]*Profile, error) { return listProfiles(s.db) }

func deleteProfile(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete profile %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteProfile removes a profile. Series using it are left without one.
// This operation is idempotent - no error is returned if the profile does not exist.
func (s *Store) DeleteProfile(id int64) error { return deleteProfile(s.db, id) }

func assignProfile(q querier, seriesID int64, profileID *int64) error {
	result, err := q.Exec("UPDATE series SET profile_id = ? WHERE id = ?", profileID, seriesID)
	if err != nil {
		return fmt.Errorf("assign profile to series %d: %w", seriesID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("assign profile to series %d: %w", seriesID, ErrNotFound)
	}
	return nil
}

// AssignProfile sets or clears (nil) the profile of a series.
func (s *Store) AssignProfile(seriesID int64, profileID *int64) error {
	return assignProfile(s.db, seriesID, profileID)
}

func seriesProfileID(q querier, episodeID int64) (*int64, error) {
	var profileID *int64
	err := q.QueryRow(`
		SELECT s.profile_id FROM episodes e
		JOIN series s ON s.id = e.series_id
		WHERE e.id = ?`, episodeID).Scan(&profileID)
	if err != nil {
		return nil, fmt.Errorf("get profile of episode %d: %w", episodeID, mapSQLiteError(err))
	}
	return profileID, nil
}

// EpisodeProfileID returns the profile ID of the series owning the episode,
// or nil when the series has none.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) EpisodeProfileID(episodeID int64) (*int64, error) {
	return seriesProfileID(s.db, episodeID)
}

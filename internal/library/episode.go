package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

const episodeColumns = "id, series_id, season, episode, title, path, file_size, file_id, audio_languages, missing_subtitles"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (*Episode, error) {
	e := &Episode{}
	var audio sql.NullString
	if err := row.Scan(&e.ID, &e.SeriesID, &e.Season, &e.Episode, &e.Title, &e.Path,
		&e.FileSize, &e.FileID, &audio, &e.MissingSubtitles); err != nil {
		return nil, err
	}
	if audio.Valid && audio.String != "" {
		if err := json.Unmarshal([]byte(audio.String), &e.AudioLanguages); err != nil {
			return nil, fmt.Errorf("decode audio languages: %w", err)
		}
	}
	return e, nil
}

func encodeAudio(langs []string) (string, error) {
	if langs == nil {
		langs = []string{}
	}
	b, err := json.Marshal(langs)
	if err != nil {
		return "", fmt.Errorf("encode audio languages: %w", err)
	}
	return string(b), nil
}

func addEpisode(q querier, e *Episode) error {
	audio, err := encodeAudio(e.AudioLanguages)
	if err != nil {
		return err
	}
	if e.MissingSubtitles == "" {
		e.MissingSubtitles = EncodeMissing(nil)
	}
	result, err := q.Exec(`
		INSERT INTO episodes (series_id, season, episode, title, path, file_size, file_id, audio_languages, missing_subtitles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SeriesID, e.Season, e.Episode, e.Title, e.Path, e.FileSize, e.FileID, audio, e.MissingSubtitles,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// AddEpisode inserts a new episode into the database.
// Sets ID on the struct.
func (s *Store) AddEpisode(e *Episode) error { return addEpisode(s.db, e) }

// AddEpisode inserts a new episode within a transaction.
func (t *Tx) AddEpisode(e *Episode) error { return addEpisode(t.tx, e) }

func getEpisode(q querier, id int64) (*Episode, error) {
	e, err := scanEpisode(q.QueryRow("SELECT "+episodeColumns+" FROM episodes WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	return e, nil
}

// GetEpisode retrieves an episode by ID.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisode(id int64) (*Episode, error) { return getEpisode(s.db, id) }

// GetEpisode retrieves an episode by ID within a transaction.
func (t *Tx) GetEpisode(id int64) (*Episode, error) { return getEpisode(t.tx, id) }

func listEpisodes(q querier, f EpisodeFilter) ([]*Episode, int, error) {
	var conditions []string
	var args []any

	if f.SeriesID != nil {
		conditions = append(conditions, "series_id = ?")
		args = append(args, *f.SeriesID)
	}
	if f.Season != nil {
		conditions = append(conditions, "season = ?")
		args = append(args, *f.Season)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM episodes "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count episodes: %w", err)
	}

	query := "SELECT " + episodeColumns + " FROM episodes " + whereClause + " ORDER BY season, episode"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate episodes: %w", err)
	}

	return results, total, nil
}

// ListEpisodes returns episodes matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListEpisodes(f EpisodeFilter) ([]*Episode, int, error) { return listEpisodes(s.db, f) }

// ListEpisodes returns episodes matching the filter within a transaction.
func (t *Tx) ListEpisodes(f EpisodeFilter) ([]*Episode, int, error) { return listEpisodes(t.tx, f) }

func updateEpisode(q querier, e *Episode) error {
	audio, err := encodeAudio(e.AudioLanguages)
	if err != nil {
		return err
	}
	result, err := q.Exec(`
		UPDATE episodes SET series_id = ?, season = ?, episode = ?, title = ?, path = ?,
			file_size = ?, file_id = ?, audio_languages = ?
		WHERE id = ?`,
		e.SeriesID, e.Season, e.Episode, e.Title, e.Path, e.FileSize, e.FileID, audio, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update episode %d: %w", e.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update episode %d: %w", e.ID, ErrNotFound)
	}
	return nil
}

// UpdateEpisode updates an existing episode. The missing-subtitles value is
// left untouched; use SetMissingSubtitles for that.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) UpdateEpisode(e *Episode) error { return updateEpisode(s.db, e) }

// UpdateEpisode updates an existing episode within a transaction.
func (t *Tx) UpdateEpisode(e *Episode) error { return updateEpisode(t.tx, e) }

func setMissingSubtitles(q querier, id int64, encoded string) error {
	result, err := q.Exec("UPDATE episodes SET missing_subtitles = ? WHERE id = ?", encoded, id)
	if err != nil {
		return fmt.Errorf("set missing subtitles for episode %d: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set missing subtitles for episode %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetMissingSubtitles stores the encoded missing-language list of an episode.
func (s *Store) SetMissingSubtitles(id int64, encoded string) error {
	return setMissingSubtitles(s.db, id, encoded)
}

// SetMissingSubtitles stores the encoded missing-language list within a transaction.
func (t *Tx) SetMissingSubtitles(id int64, encoded string) error {
	return setMissingSubtitles(t.tx, id, encoded)
}

func deleteEpisode(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM episodes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete episode %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteEpisode removes an episode and its subtitle rows.
// This operation is idempotent - no error is returned if the episode does not exist.
func (s *Store) DeleteEpisode(id int64) error { return deleteEpisode(s.db, id) }

// DeleteEpisode removes an episode within a transaction.
func (t *Tx) DeleteEpisode(id int64) error { return deleteEpisode(t.tx, id) }

func listEpisodeSummaries(q querier, seriesID *int64) ([]EpisodeSummary, error) {
	query := `
		SELECT e.id, e.series_id, s.title, e.season, e.episode, e.title
		FROM episodes e
		JOIN series s ON s.id = e.series_id`
	var args []any
	if seriesID != nil {
		query += " WHERE e.series_id = ?"
		args = append(args, *seriesID)
	}
	query += " ORDER BY e.id"

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list episode summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []EpisodeSummary
	for rows.Next() {
		var es EpisodeSummary
		if err := rows.Scan(&es.ID, &es.SeriesID, &es.SeriesTitle, &es.Season, &es.Episode, &es.EpisodeTitle); err != nil {
			return nil, fmt.Errorf("scan episode summary: %w", err)
		}
		results = append(results, es)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episode summaries: %w", err)
	}
	return results, nil
}

// ListEpisodeSummaries returns every episode, or only those of seriesID when
// it is non-nil, ordered by episode ID.
func (s *Store) ListEpisodeSummaries(seriesID *int64) ([]EpisodeSummary, error) {
	return listEpisodeSummaries(s.db, seriesID)
}

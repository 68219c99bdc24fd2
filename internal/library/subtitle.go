package library

import (
	"database/sql"
	"fmt"
	"strings"
)

// Key is the identity of a subtitle row within one episode.
// Embedded and external rows never share a key.
type Key struct {
	TrackID  int64
	Path     string
	External bool
	Language string
	Forced   bool
	HI       bool
}

// Key returns the identity of the subtitle. Legacy rows have a zero location.
func (s *Subtitle) Key() Key {
	k := Key{Language: s.Language, Forced: s.Forced, HI: s.HI}
	switch loc := s.Location.(type) {
	case EmbeddedTrack:
		k.TrackID = loc.TrackID
	case ExternalFile:
		k.Path = loc.Path
		k.External = true
	}
	return k
}

func scanSubtitle(row rowScanner) (*Subtitle, error) {
	s := &Subtitle{}
	var trackID sql.NullInt64
	var path sql.NullString
	if err := row.Scan(&s.ID, &s.EpisodeID, &s.SeriesID, &s.Language, &s.Forced, &s.HI,
		&trackID, &path, &s.Size); err != nil {
		return nil, err
	}
	switch {
	case path.Valid:
		s.Location = ExternalFile{Path: path.String}
	case trackID.Valid:
		s.Location = EmbeddedTrack{TrackID: trackID.Int64}
	}
	return s, nil
}

func upsertSubtitle(q querier, s *Subtitle) error {
	var err error
	switch loc := s.Location.(type) {
	case EmbeddedTrack:
		_, err = q.Exec(`
			INSERT INTO episode_subtitles (episode_id, series_id, language, forced, hi, embedded_track_id, path, size)
			VALUES (?, ?, ?, ?, ?, ?, NULL, 0)
			ON CONFLICT (episode_id, embedded_track_id, language, forced, hi) WHERE path IS NULL
			DO UPDATE SET series_id = excluded.series_id
			WHERE series_id <> excluded.series_id`,
			s.EpisodeID, s.SeriesID, s.Language, s.Forced, s.HI, loc.TrackID,
		)
	case ExternalFile:
		_, err = q.Exec(`
			INSERT INTO episode_subtitles (episode_id, series_id, language, forced, hi, embedded_track_id, path, size)
			VALUES (?, ?, ?, ?, ?, NULL, ?, ?)
			ON CONFLICT (episode_id, path, language, forced, hi) WHERE path IS NOT NULL
			DO UPDATE SET size = excluded.size, series_id = excluded.series_id
			WHERE size <> excluded.size OR series_id <> excluded.series_id`,
			s.EpisodeID, s.SeriesID, s.Language, s.Forced, s.HI, loc.Path, s.Size,
		)
	default:
		return fmt.Errorf("upsert subtitle for episode %d: %w", s.EpisodeID, ErrConstraint)
	}
	if err != nil {
		return fmt.Errorf("upsert subtitle for episode %d: %w", s.EpisodeID, mapSQLiteError(err))
	}
	return nil
}

func upsertSubtitles(q querier, subs []*Subtitle) error {
	for _, s := range subs {
		if err := upsertSubtitle(q, s); err != nil {
			return err
		}
	}
	return nil
}

// UpsertSubtitles inserts each subtitle or, when a row with the same identity
// exists, updates it in place. Rows without a location are rejected with
// ErrConstraint.
func (s *Store) UpsertSubtitles(subs []*Subtitle) error { return upsertSubtitles(s.db, subs) }

// UpsertSubtitles inserts or updates subtitles within a transaction.
func (t *Tx) UpsertSubtitles(subs []*Subtitle) error { return upsertSubtitles(t.tx, subs) }

func listSubtitles(q querier, f SubtitleFilter) ([]*Subtitle, error) {
	var conditions []string
	var args []any

	if f.EpisodeID != nil {
		conditions = append(conditions, "episode_id = ?")
		args = append(args, *f.EpisodeID)
	}
	if f.SeriesID != nil {
		conditions = append(conditions, "series_id = ?")
		args = append(args, *f.SeriesID)
	}
	if f.Language != nil {
		conditions = append(conditions, "language = ?")
		args = append(args, *f.Language)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := q.Query(`
		SELECT id, episode_id, series_id, language, forced, hi, embedded_track_id, path, size
		FROM episode_subtitles `+whereClause+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list subtitles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Subtitle
	for rows.Next() {
		s, err := scanSubtitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subtitle: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subtitles: %w", err)
	}
	return results, nil
}

// ListSubtitles returns subtitles matching the filter ordered by ID.
func (s *Store) ListSubtitles(f SubtitleFilter) ([]*Subtitle, error) { return listSubtitles(s.db, f) }

// ListSubtitles returns subtitles matching the filter within a transaction.
func (t *Tx) ListSubtitles(f SubtitleFilter) ([]*Subtitle, error) { return listSubtitles(t.tx, f) }

func deleteLegacySubtitles(q querier, episodeID int64) (int64, error) {
	result, err := q.Exec(`
		DELETE FROM episode_subtitles
		WHERE episode_id = ? AND path IS NULL AND embedded_track_id IS NULL`, episodeID)
	if err != nil {
		return 0, fmt.Errorf("delete legacy subtitles for episode %d: %w", episodeID, mapSQLiteError(err))
	}
	return result.RowsAffected()
}

// DeleteLegacySubtitles removes rows of the episode that carry neither a
// track ID nor a path. Returns the number of rows removed.
func (s *Store) DeleteLegacySubtitles(episodeID int64) (int64, error) {
	return deleteLegacySubtitles(s.db, episodeID)
}

// DeleteLegacySubtitles removes legacy rows within a transaction.
func (t *Tx) DeleteLegacySubtitles(episodeID int64) (int64, error) {
	return deleteLegacySubtitles(t.tx, episodeID)
}

func deleteEmbeddedSubtitlesExcept(q querier, episodeID int64, keep []*Subtitle) (int64, error) {
	keys := make(map[Key]struct{}, len(keep))
	for _, s := range keep {
		keys[s.Key()] = struct{}{}
	}

	existing, err := listSubtitles(q, SubtitleFilter{EpisodeID: &episodeID})
	if err != nil {
		return 0, err
	}

	var ids []int64
	for _, s := range existing {
		if _, ok := s.Location.(EmbeddedTrack); !ok {
			continue
		}
		if _, ok := keys[s.Key()]; !ok {
			ids = append(ids, s.ID)
		}
	}
	return deleteSubtitleIDs(q, ids)
}

// DeleteEmbeddedSubtitlesExcept removes embedded rows of the episode whose
// identity is not in keep. External and legacy rows are untouched.
func (s *Store) DeleteEmbeddedSubtitlesExcept(episodeID int64, keep []*Subtitle) (int64, error) {
	return deleteEmbeddedSubtitlesExcept(s.db, episodeID, keep)
}

// DeleteEmbeddedSubtitlesExcept removes stale embedded rows within a transaction.
func (t *Tx) DeleteEmbeddedSubtitlesExcept(episodeID int64, keep []*Subtitle) (int64, error) {
	return deleteEmbeddedSubtitlesExcept(t.tx, episodeID, keep)
}

func deleteSubtitlesByPath(q querier, episodeID int64, paths []string) (int64, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(paths)), ",")
	args := make([]any, 0, len(paths)+1)
	args = append(args, episodeID)
	for _, p := range paths {
		args = append(args, p)
	}
	result, err := q.Exec(`
		DELETE FROM episode_subtitles
		WHERE episode_id = ? AND path IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete subtitles by path for episode %d: %w", episodeID, mapSQLiteError(err))
	}
	return result.RowsAffected()
}

// DeleteSubtitlesByPath removes external rows of the episode stored under any
// of the given paths.
func (s *Store) DeleteSubtitlesByPath(episodeID int64, paths []string) (int64, error) {
	return deleteSubtitlesByPath(s.db, episodeID, paths)
}

// DeleteSubtitlesByPath removes external rows by path within a transaction.
func (t *Tx) DeleteSubtitlesByPath(episodeID int64, paths []string) (int64, error) {
	return deleteSubtitlesByPath(t.tx, episodeID, paths)
}

func deleteSubtitleIDs(q querier, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	result, err := q.Exec("DELETE FROM episode_subtitles WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("delete subtitles: %w", mapSQLiteError(err))
	}
	return result.RowsAffected()
}

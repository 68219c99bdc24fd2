package library

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

func addSeries(q querier, s *Series) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO series (title, path, profile_id, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.Title, s.Path, s.ProfileID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	s.ID = id
	s.AddedAt = now
	s.UpdatedAt = now
	return nil
}

// AddSeries inserts a new series.
// Sets ID, AddedAt, and UpdatedAt on the struct.
func (s *Store) AddSeries(series *Series) error { return addSeries(s.db, series) }

// AddSeries inserts a new series within a transaction.
func (t *Tx) AddSeries(series *Series) error { return addSeries(t.tx, series) }

func getSeries(q querier, id int64) (*Series, error) {
	s := &Series{}
	err := q.QueryRow(`
		SELECT id, title, path, profile_id, added_at, updated_at
		FROM series WHERE id = ?`, id,
	).Scan(&s.ID, &s.Title, &s.Path, &s.ProfileID, &s.AddedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, mapSQLiteError(err))
	}
	return s, nil
}

// GetSeries retrieves a series by ID.
// Returns ErrNotFound if the series does not exist.
func (s *Store) GetSeries(id int64) (*Series, error) { return getSeries(s.db, id) }

// GetSeries retrieves a series by ID within a transaction.
func (t *Tx) GetSeries(id int64) (*Series, error) { return getSeries(t.tx, id) }

func listSeries(q querier, f SeriesFilter) ([]*Series, int, error) {
	var conditions []string
	var args []any

	if f.ProfileID != nil {
		conditions = append(conditions, "profile_id = ?")
		args = append(args, *f.ProfileID)
	}
	if f.Title != nil {
		conditions = append(conditions, "title = ?")
		args = append(args, *f.Title)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM series "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count series: %w", err)
	}

	query := "SELECT id, title, path, profile_id, added_at, updated_at FROM series " + whereClause + " ORDER BY id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		s := &Series{}
		if err := rows.Scan(&s.ID, &s.Title, &s.Path, &s.ProfileID, &s.AddedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate series: %w", err)
	}

	return results, total, nil
}

// ListSeries returns series matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListSeries(f SeriesFilter) ([]*Series, int, error) { return listSeries(s.db, f) }

// ListSeries returns series matching the filter within a transaction.
func (t *Tx) ListSeries(f SeriesFilter) ([]*Series, int, error) { return listSeries(t.tx, f) }

func updateSeries(q querier, s *Series) error {
	now := time.Now()
	result, err := q.Exec(`
		UPDATE series SET title = ?, path = ?, profile_id = ?, updated_at = ?
		WHERE id = ?`,
		s.Title, s.Path, s.ProfileID, now, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update series %d: %w", s.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update series %d: %w", s.ID, ErrNotFound)
	}
	s.UpdatedAt = now
	return nil
}

// UpdateSeries updates an existing series.
// Returns ErrNotFound if the series does not exist.
func (s *Store) UpdateSeries(series *Series) error { return updateSeries(s.db, series) }

// UpdateSeries updates an existing series within a transaction.
func (t *Tx) UpdateSeries(series *Series) error { return updateSeries(t.tx, series) }

func deleteSeries(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM series WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete series %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteSeries removes a series and, through cascading, its episodes.
// This operation is idempotent - no error is returned if the series does not exist.
func (s *Store) DeleteSeries(id int64) error { return deleteSeries(s.db, id) }

// DeleteSeries removes a series within a transaction.
func (t *Tx) DeleteSeries(id int64) error { return deleteSeries(t.tx, id) }

package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const eventColumns = "id, event_type, entity_type, entity_id, payload, occurred_at, created_at"

// EventLog is the durable history of subtitle and scan events, kept in the
// events table next to the library.
type EventLog struct {
	db *sql.DB
}

func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// Append stores e with its JSON payload and returns the row id.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal %s event: %w", e.EventType(), err)
	}

	result, err := l.db.Exec(`
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s event: %w", e.EventType(), err)
	}
	return result.LastInsertId()
}

// RawEvent is a stored event; Payload is decoded with a Registry.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   int64
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Since returns events that occurred at or after t, oldest first.
func (l *EventLog) Since(t time.Time) ([]RawEvent, error) {
	return l.query("WHERE occurred_at >= ? ORDER BY id ASC", t)
}

// ForEntity returns the history of one episode or series, oldest first.
func (l *EventLog) ForEntity(entityType string, entityID int64) ([]RawEvent, error) {
	return l.query("WHERE entity_type = ? AND entity_id = ? ORDER BY id ASC", entityType, entityID)
}

// Recent returns a page of events, newest first, and the total count.
func (l *EventLog) Recent(limit, offset int) ([]RawEvent, int, error) {
	var total int
	if err := l.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	events, err := l.query("ORDER BY id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Prune deletes events older than retention. A non-positive retention
// keeps everything.
func (l *EventLog) Prune(retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	result, err := l.db.Exec("DELETE FROM events WHERE occurred_at < ?", time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}

func (l *EventLog) query(clause string, args ...any) ([]RawEvent, error) {
	rows, err := l.db.Query("SELECT "+eventColumns+" FROM events "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

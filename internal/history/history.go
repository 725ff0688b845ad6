// Package history implements component C13: a local, read-only event log
// for post-mortem debugging of a headless device. Nothing in the control
// loop reads it back — a write failure is logged and ignored, never
// propagated.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// EventKind classifies a HistoryEvent row.
type EventKind string

const (
	EventClockTrust EventKind = "clock_trust"
	EventReason     EventKind = "action_reason"
	EventAlarm      EventKind = "alarm_programmed"
	EventShutdown   EventKind = "shutdown_requested"
)

// Event is one row: a timestamped, JSON-detailed occurrence.
type Event struct {
	ID        int64
	Kind      EventKind
	Detail    string
	CreatedAt time.Time
}

// Store owns the sqlite connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file at dbPath and ensures the
// schema exists. It does not create dbPath's parent directory; opening
// fails if that directory is missing.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", dbPath, err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		detail TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("history: creating schema: %w", err)
	}
	return nil
}

// Record inserts one event. detail is marshaled as JSON. Callers should
// log, not propagate, any returned error: history is advisory, not a
// dependency of the control loop.
func (s *Store) Record(kind EventKind, detail interface{}) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("history: marshaling %s detail: %w", kind, err)
	}

	_, err = s.db.Exec(`INSERT INTO events (kind, detail) VALUES (?, ?)`, string(kind), string(data))
	if err != nil {
		return fmt.Errorf("history: recording %s: %w", kind, err)
	}
	return nil
}

// Recent returns the most recent n events, newest first. Used only by
// cmd/wittyctl's status output, never by the control loop itself.
func (s *Store) Recent(n int) ([]Event, error) {
	rows, err := s.db.Query(`SELECT id, kind, detail, created_at FROM events ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: querying recent events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Detail, &e.CreatedAt); err != nil {
			continue
		}
		e.Kind = EventKind(kind)
		events = append(events, e)
	}
	return events, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

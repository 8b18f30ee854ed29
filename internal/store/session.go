package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// SessionRecord is one completed exercise session as stored in the database.
// Metrics holds the full JSON report; Game, Score and DurationSeconds are
// duplicated into columns so lists and aggregates never parse the JSON.
type SessionRecord struct {
	ID              string
	Game            string
	Score           int
	StartedAt       time.Time
	DurationSeconds float64
	Metrics         json.RawMessage
	CreatedAt       time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session record.
func (r *SessionRepository) Create(rec *SessionRecord) error {
	rec.CreatedAt = time.Now()

	metrics := rec.Metrics
	if metrics == nil {
		metrics = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, game, score, started_at, duration_seconds, metrics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Game, rec.Score, rec.StartedAt, rec.DurationSeconds, string(metrics), rec.CreatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*SessionRecord, error) {
	rec := &SessionRecord{}
	var metrics string

	err := r.db.QueryRow(
		`SELECT id, game, score, started_at, duration_seconds, metrics, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Game, &rec.Score, &rec.StartedAt, &rec.DurationSeconds, &metrics, &rec.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec.Metrics = json.RawMessage(metrics)
	return rec, nil
}

// List retrieves sessions newest first, up to limit. A limit of 0 or less
// returns all sessions.
func (r *SessionRepository) List(limit int) ([]*SessionRecord, error) {
	query := `SELECT id, game, score, started_at, duration_seconds, metrics, created_at
		 FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListByGame retrieves sessions for one game, newest first.
func (r *SessionRepository) ListByGame(game string, limit int) ([]*SessionRecord, error) {
	query := `SELECT id, game, score, started_at, duration_seconds, metrics, created_at
		 FROM sessions WHERE game = ? ORDER BY started_at DESC`
	args := []any{game}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListSince retrieves sessions started at or after t, oldest first. The
// dashboard aggregates use this to build day buckets in order.
func (r *SessionRepository) ListSince(t time.Time) ([]*SessionRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, game, score, started_at, duration_seconds, metrics, created_at
		 FROM sessions WHERE started_at >= ? ORDER BY started_at ASC`,
		t,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Delete removes a session by ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanSessions(rows *sql.Rows) ([]*SessionRecord, error) {
	var records []*SessionRecord
	for rows.Next() {
		rec := &SessionRecord{}
		var metrics string
		if err := rows.Scan(&rec.ID, &rec.Game, &rec.Score, &rec.StartedAt,
			&rec.DurationSeconds, &metrics, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Metrics = json.RawMessage(metrics)
		records = append(records, rec)
	}
	return records, rows.Err()
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pota-logger/backend/internal/storage/models"
)

// SessionRepository provides data access for hunt sessions.
type SessionRepository struct {
	BaseRepository
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GetOrCreateByDate returns the session for date (YYYY-MM-DD), creating it if needed.
// Concurrent callers for the same date get the same row.
func (r *SessionRepository) GetOrCreateByDate(ctx context.Context, date string) (*models.HuntSession, error) {
	if _, err := time.Parse(models.SessionDateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid session date %q: %w", date, err)
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO hunt_sessions (id, session_date, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (session_date) DO NOTHING
	`, GenerateID(), date, r.Now())
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	session, err := r.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session for %s vanished after insert", date)
	}
	return session, nil
}

// GetToday returns today's session (UTC), creating it if needed.
func (r *SessionRepository) GetToday(ctx context.Context) (*models.HuntSession, error) {
	return r.GetOrCreateByDate(ctx, models.SessionDateFor(r.Now()))
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.HuntSession, error) {
	return r.getOne(ctx, "id", id)
}

// GetByDate retrieves the session for a date, or nil if none exists.
func (r *SessionRepository) GetByDate(ctx context.Context, date string) (*models.HuntSession, error) {
	return r.getOne(ctx, "session_date", date)
}

func (r *SessionRepository) getOne(ctx context.Context, column, value string) (*models.HuntSession, error) {
	s := &models.HuntSession{}

	err := r.DB().QueryRowContext(ctx,
		"SELECT id, session_date, created_at FROM hunt_sessions WHERE "+column+" = ?",
		value,
	).Scan(&s.ID, &s.SessionDate, &s.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	return s, nil
}

// List retrieves all sessions with their contact counts, newest date first.
func (r *SessionRepository) List(ctx context.Context) ([]models.HuntSessionSummary, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT s.id, s.session_date, s.created_at,
			(SELECT COUNT(*) FROM qsos q WHERE q.hunt_session_id = s.id)
		FROM hunt_sessions s
		ORDER BY s.session_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.HuntSessionSummary{}
	for rows.Next() {
		var s models.HuntSessionSummary
		if err := rows.Scan(&s.ID, &s.SessionDate, &s.CreatedAt, &s.QSOCount); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Count returns the number of sessions.
func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM hunt_sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}

// Delete removes a session and all of its contacts.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM qsos WHERE hunt_session_id = ?"), id); err != nil {
			return fmt.Errorf("deleting session contacts: %w", err)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM hunt_sessions WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

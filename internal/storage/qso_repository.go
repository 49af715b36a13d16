package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pota-logger/backend/internal/storage/models"
)

const qsoColumns = `id, hunt_session_id, park_reference, callsign, frequency, band, mode,
	rst_sent, rst_received, timestamp, created_at`

// QSORepository provides data access for logged contacts.
type QSORepository struct {
	BaseRepository
}

// NewQSORepository creates a new contact repository.
func NewQSORepository(db *DB) *QSORepository {
	return &QSORepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create normalizes and inserts a contact into its session. A contact with the
// same callsign, park and band already in the session yields *DuplicateQSOError.
func (r *QSORepository) Create(ctx context.Context, q *models.QSO) error {
	if q.Timestamp.IsZero() {
		q.Timestamp = r.Now()
	}
	q.Normalize()
	q.ID = GenerateID()
	q.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO qsos (`+qsoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		q.ID, q.HuntSessionID, q.ParkReference, q.Callsign, q.Frequency, q.Band, q.Mode,
		q.RSTSent, q.RSTReceived, q.Timestamp, q.CreatedAt,
	)

	if isUniqueViolation(err) {
		return &DuplicateQSOError{Callsign: q.Callsign, Park: q.ParkReference, Band: q.Band}
	}
	if err != nil {
		return fmt.Errorf("inserting qso: %w", err)
	}

	return nil
}

// GetByID retrieves a contact within a session.
func (r *QSORepository) GetByID(ctx context.Context, sessionID, id string) (*models.QSO, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+qsoColumns+` FROM qsos WHERE hunt_session_id = ? AND id = ?
	`, sessionID, id)
	if err != nil {
		return nil, fmt.Errorf("querying qso: %w", err)
	}

	qsos, err := scanQSOs(rows)
	if err != nil {
		return nil, err
	}
	if len(qsos) == 0 {
		return nil, nil
	}
	return &qsos[0], nil
}

// ListBySession retrieves a session's contacts ordered by timestamp ascending.
func (r *QSORepository) ListBySession(ctx context.Context, sessionID string) ([]models.QSO, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+qsoColumns+` FROM qsos
		WHERE hunt_session_id = ?
		ORDER BY timestamp, created_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying qsos: %w", err)
	}

	return scanQSOs(rows)
}

// ListByDate retrieves the contacts of the session for date (YYYY-MM-DD).
// No session means no contacts.
func (r *QSORepository) ListByDate(ctx context.Context, date string) ([]models.QSO, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT q.id, q.hunt_session_id, q.park_reference, q.callsign, q.frequency, q.band, q.mode,
			   q.rst_sent, q.rst_received, q.timestamp, q.created_at
		FROM qsos q
		JOIN hunt_sessions s ON s.id = q.hunt_session_id
		WHERE s.session_date = ?
		ORDER BY q.timestamp, q.created_at
	`, date)
	if err != nil {
		return nil, fmt.Errorf("querying qsos for %s: %w", date, err)
	}

	return scanQSOs(rows)
}

// ListToday retrieves the contacts logged in today's (UTC) session.
func (r *QSORepository) ListToday(ctx context.Context) ([]models.QSO, error) {
	return r.ListByDate(ctx, models.SessionDateFor(r.Now()))
}

// Delete removes a contact from a session.
func (r *QSORepository) Delete(ctx context.Context, sessionID, id string) error {
	result, err := r.DB().ExecContext(ctx,
		"DELETE FROM qsos WHERE hunt_session_id = ? AND id = ?", sessionID, id)
	if err != nil {
		return fmt.Errorf("deleting qso: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of contacts across all sessions.
func (r *QSORepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM qsos").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting qsos: %w", err)
	}
	return n, nil
}

func scanQSOs(rows *sql.Rows) ([]models.QSO, error) {
	defer rows.Close()

	qsos := []models.QSO{}
	for rows.Next() {
		var q models.QSO
		if err := rows.Scan(
			&q.ID, &q.HuntSessionID, &q.ParkReference, &q.Callsign, &q.Frequency, &q.Band, &q.Mode,
			&q.RSTSent, &q.RSTReceived, &q.Timestamp, &q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning qso: %w", err)
		}
		q.Timestamp = q.Timestamp.UTC()
		q.CreatedAt = q.CreatedAt.UTC()
		qsos = append(qsos, q)
	}

	return qsos, rows.Err()
}

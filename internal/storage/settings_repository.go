package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pota-logger/backend/internal/storage/models"
)

// SettingsRepository provides access to the singleton settings row.
type SettingsRepository struct {
	BaseRepository
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Get returns the settings row, creating it with defaults on first access.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	now := r.Now()
	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO settings (id, singleton, operator_callsign, flrig_host, flrig_port, created_at, updated_at)
		VALUES (?, 1, '', ?, ?, ?, ?)
		ON CONFLICT (singleton) DO NOTHING
	`, GenerateID(), models.DefaultFlrigHost, models.DefaultFlrigPort, now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting default settings: %w", err)
	}

	s := &models.Settings{}
	err = r.DB().QueryRowContext(ctx, `
		SELECT id, operator_callsign, flrig_host, flrig_port, created_at, updated_at
		FROM settings WHERE singleton = 1
	`).Scan(&s.ID, &s.OperatorCallsign, &s.FlrigHost, &s.FlrigPort, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settings row missing after insert")
	}
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}

	return s, nil
}

// Update overwrites the operator-editable fields. ID and CreatedAt of s are
// refreshed from the stored row.
func (r *SettingsRepository) Update(ctx context.Context, s *models.Settings) error {
	current, err := r.Get(ctx)
	if err != nil {
		return err
	}

	s.ID = current.ID
	s.CreatedAt = current.CreatedAt
	s.UpdatedAt = r.Now()

	_, err = r.DB().ExecContext(ctx, `
		UPDATE settings SET
			operator_callsign = ?, flrig_host = ?, flrig_port = ?, updated_at = ?
		WHERE singleton = 1
	`, s.OperatorCallsign, s.FlrigHost, s.FlrigPort, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}

	return nil
}

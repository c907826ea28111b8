package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/weekly-tracker/backend/internal/storage/models"
)

// SettingsRepository provides data access for the settings key/value table.
type SettingsRepository struct {
	BaseRepository
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Get returns the value stored under key. ok is false when the key has never
// been written.
func (r *SettingsRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.DB().QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key and appends the change to the settings history in the same
// transaction.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.Transaction(ctx, func(tx *sql.Tx) error {
		var old sql.NullString
		err := tx.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&old)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("querying setting %s: %w", key, err)
		}

		now := r.Now()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, now); err != nil {
			return fmt.Errorf("updating setting %s: %w", key, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings_history (id, key, old_value, new_value, changed_at)
			VALUES (?, ?, ?, ?, ?)
		`, GenerateID(), key, old, value, now); err != nil {
			return fmt.Errorf("recording setting change %s: %w", key, err)
		}

		return nil
	})
}

// List returns every stored setting.
func (r *SettingsRepository) List(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.DB().QueryContext(ctx, "SELECT key, value, updated_at FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		settings = append(settings, s)
	}

	return settings, rows.Err()
}

// History returns the most recent changes to key, newest first.
func (r *SettingsRepository) History(ctx context.Context, key string, limit int) ([]models.SettingChange, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, key, old_value, new_value, changed_at
		FROM settings_history
		WHERE key = ?
		ORDER BY rowid DESC
		LIMIT ?
	`, key, limit)
	if err != nil {
		return nil, fmt.Errorf("querying setting history: %w", err)
	}
	defer rows.Close()

	var changes []models.SettingChange
	for rows.Next() {
		var c models.SettingChange
		if err := rows.Scan(&c.ID, &c.Key, &c.OldValue, &c.NewValue, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scanning setting change: %w", err)
		}
		changes = append(changes, c)
	}

	return changes, rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/darsapp/dars-api/internal/models"
)

// SettingsRepository manages the system_settings key/value store.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetMany returns the settings for the requested keys, keyed by name.
func (r *SettingsRepository) GetMany(ctx context.Context, keys []string) (map[string]models.SystemSetting, error) {
	const query = `SELECT id, key, value, is_encrypted, created_at, updated_at FROM system_settings WHERE key = ANY($1)`
	var rows []models.SystemSetting
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(keys)); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	settings := make(map[string]models.SystemSetting, len(rows))
	for _, row := range rows {
		settings[row.Key] = row
	}
	return settings, nil
}

// Upsert writes a setting, replacing any previous value for the key.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	now := time.Now().UTC()
	setting.UpdatedAt = now

	const query = `INSERT INTO system_settings (key, value, is_encrypted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, is_encrypted = EXCLUDED.is_encrypted, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, setting.Key, setting.Value, setting.IsEncrypted, now).Scan(&setting.ID, &setting.CreatedAt); err != nil {
		return fmt.Errorf("upsert setting %s: %w", setting.Key, err)
	}
	return nil
}

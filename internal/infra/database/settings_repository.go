package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type SettingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

func (r *SettingsRepository) FindByUserID(ctx context.Context, userID string) (*entity.Settings, error) {
	query := `
		SELECT id, user_id, timezone, language, currency, date_format,
		       notifications, preferences, created_at, updated_at
		FROM settings WHERE user_id = $1
	`

	var s entity.Settings
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.Timezone, &s.Language, &s.Currency, &s.DateFormat,
		&s.Notifications, &s.Preferences, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSettingsNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *SettingsRepository) Create(ctx context.Context, s *entity.Settings) error {
	query := `
		INSERT INTO settings (id, user_id, timezone, language, currency, date_format,
			notifications, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.UserID, s.Timezone, s.Language, s.Currency, s.DateFormat,
		s.Notifications, s.Preferences, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *SettingsRepository) Update(ctx context.Context, s *entity.Settings) error {
	query := `
		UPDATE settings SET
			timezone = $2, language = $3, currency = $4, date_format = $5,
			notifications = $6, preferences = $7, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		s.UserID, s.Timezone, s.Language, s.Currency, s.DateFormat,
		s.Notifications, s.Preferences,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrSettingsNotFound
		}
		return err
	}

	return nil
}

func (r *SettingsRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM settings WHERE user_id = $1", userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrSettingsNotFound
	}

	return nil
}

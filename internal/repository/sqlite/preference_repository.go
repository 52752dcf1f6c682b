package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/repository"
)

type preferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository implementation
func NewPreferenceRepository(db *sql.DB) repository.PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) DarkTheme(ctx context.Context, userKey string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")

	var enabled bool
	err := r.db.QueryRowContext(ctx, `SELECT dark_theme FROM preferences WHERE user_key = ?`, userKey).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error("failed to read dark theme preference: %v", err)
		return false, err
	}
	return enabled, nil
}

func (r *preferenceRepository) SetDarkTheme(ctx context.Context, userKey string, enabled bool) error {
	log := logger.FromContext(ctx).WithPrefix("preference_repo")
	log.Debug("storing dark theme preference: user_key=%s, enabled=%v", userKey, enabled)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO preferences (user_key, dark_theme, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_key) DO UPDATE SET
    dark_theme = excluded.dark_theme,
    updated_at = CURRENT_TIMESTAMP
`, userKey, enabled)
	if err != nil {
		log.Error("failed to store dark theme preference: %v", err)
	}
	return err
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/repository"
)

type dayStateRepository struct {
	db *sql.DB
}

// NewDayStateRepository creates a new DayStateRepository implementation
func NewDayStateRepository(db *sql.DB) repository.DayStateRepository {
	return &dayStateRepository{db: db}
}

func (r *dayStateRepository) Get(ctx context.Context, userKey, date string) (*models.DayState, error) {
	log := logger.FromContext(ctx).WithPrefix("day_state_repo")
	log.Debug("fetching day state: user_key=%s, date=%s", userKey, date)

	var state models.DayState
	err := r.db.QueryRowContext(ctx, `
SELECT user_key, date, skip_count, not_understood_count, active_sphere_index
FROM day_states
WHERE user_key = ? AND date = ?
`, userKey, date).Scan(&state.UserKey, &state.Date, &state.SkipCount, &state.NotUnderstoodCount, &state.ActiveSphereIndex)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no day state stored: user_key=%s, date=%s", userKey, date)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get day state: %v", err)
		return nil, err
	}
	return &state, nil
}

func (r *dayStateRepository) Put(ctx context.Context, state models.DayState) error {
	log := logger.FromContext(ctx).WithPrefix("day_state_repo")
	log.Debug("storing day state: user_key=%s, date=%s, skips=%d, not_understood=%d, sphere_index=%d",
		state.UserKey, state.Date, state.SkipCount, state.NotUnderstoodCount, state.ActiveSphereIndex)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO day_states (user_key, date, skip_count, not_understood_count, active_sphere_index, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_key, date) DO UPDATE SET
    skip_count = excluded.skip_count,
    not_understood_count = excluded.not_understood_count,
    active_sphere_index = excluded.active_sphere_index,
    updated_at = CURRENT_TIMESTAMP
`, state.UserKey, state.Date, state.SkipCount, state.NotUnderstoodCount, state.ActiveSphereIndex)
	if err != nil {
		log.Error("failed to store day state: %v", err)
	}
	return err
}

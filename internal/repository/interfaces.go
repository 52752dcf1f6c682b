package repository

import (
	"context"

	"github.com/ivmel/reflecta/internal/models"
)

// DayStateRepository persists per-day flow counters, keyed by user and
// calendar date. It is the durable replacement for the browser's local
// storage.
type DayStateRepository interface {
	Get(ctx context.Context, userKey, date string) (*models.DayState, error)
	Put(ctx context.Context, state models.DayState) error
}

// IdentityRepository manages locally issued guest identities.
type IdentityRepository interface {
	CreateGuest(ctx context.Context) (string, error)
	GuestExists(ctx context.Context, guestID string) (bool, error)
}

// PreferenceRepository stores the per-user dark-theme flag locally so the
// theme applies before (and despite) any backend round trip.
type PreferenceRepository interface {
	DarkTheme(ctx context.Context, userKey string) (bool, error)
	SetDarkTheme(ctx context.Context, userKey string, enabled bool) error
}

// FlowEventRepository is the local append-only activity log.
type FlowEventRepository interface {
	Insert(ctx context.Context, event models.FlowEvent) (int64, error)
	List(ctx context.Context, filter models.FlowEventFilter) ([]models.FlowEvent, error)
	Count(ctx context.Context, filter models.FlowEventFilter) (int, error)
}

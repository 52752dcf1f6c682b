package services

import (
	"context"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/identity"
	"github.com/ivmel/reflecta/internal/jobs"
	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/repository"
)

// SettingsService reads and updates per-user settings. The dark-theme
// flag is cached locally so the UI can apply it immediately and keep it
// through backend outages; the rest of the document lives on the
// backend and is mirrored there asynchronously on update.
type SettingsService interface {
	Get(ctx context.Context, id identity.Identity) (*models.Settings, error)
	Update(ctx context.Context, id identity.Identity, update models.SettingsUpdate) (*models.Settings, error)
}

type settingsService struct {
	client backend.ClientInterface
	prefs  repository.PreferenceRepository
	queue  jobs.JobQueue
	log    *logger.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(client backend.ClientInterface, prefs repository.PreferenceRepository, queue jobs.JobQueue) SettingsService {
	return &settingsService{
		client: client,
		prefs:  prefs,
		queue:  queue,
		log:    logger.Default().WithPrefix("settings"),
	}
}

func (s *settingsService) Get(ctx context.Context, id identity.Identity) (*models.Settings, error) {
	settings, err := s.client.GetSettings(ctx, id.Auth())
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNetwork) || errors.HasCode(err, errors.ErrCodeServer) {
			// Backend unreachable: serve at least the locally cached theme.
			dark, prefErr := s.prefs.DarkTheme(ctx, id.Key())
			if prefErr == nil {
				s.log.Warn("settings fetch failed, serving cached theme for %s: %v", id.Key(), err)
				return &models.Settings{DarkTheme: dark}, nil
			}
		}
		return nil, err
	}
	s.cacheTheme(ctx, id.Key(), settings.DarkTheme)
	return settings, nil
}

// Update writes the theme change locally right away, then mirrors the
// whole update to the backend in the background. When the background
// queue is full the backend call happens inline instead.
func (s *settingsService) Update(ctx context.Context, id identity.Identity, update models.SettingsUpdate) (*models.Settings, error) {
	if update.DarkTheme != nil {
		if err := s.prefs.SetDarkTheme(ctx, id.Key(), *update.DarkTheme); err != nil {
			s.log.Warn("failed to cache theme for %s: %v", id.Key(), err)
		}
	}

	if err := s.queue.EnqueueSettingsSync(id.Auth(), update); err != nil {
		s.log.Warn("settings sync queue full, mirroring inline: %v", err)
		return s.client.UpdateSettings(ctx, id.Auth(), update)
	}

	// The mirror is in flight; answer with the current document plus the
	// accepted changes so the UI reflects them immediately.
	settings, err := s.client.GetSettings(ctx, id.Auth())
	if err != nil {
		settings = &models.Settings{}
		if dark, prefErr := s.prefs.DarkTheme(ctx, id.Key()); prefErr == nil {
			settings.DarkTheme = dark
		}
	}
	applyUpdate(settings, update)
	return settings, nil
}

func (s *settingsService) cacheTheme(ctx context.Context, userKey string, dark bool) {
	if err := s.prefs.SetDarkTheme(ctx, userKey, dark); err != nil {
		s.log.Warn("failed to cache theme for %s: %v", userKey, err)
	}
}

func applyUpdate(settings *models.Settings, update models.SettingsUpdate) {
	if update.NotificationTime != nil {
		settings.NotificationTime = update.NotificationTime
	}
	if update.Language != nil {
		settings.Language = *update.Language
	}
	if update.IsPaused != nil {
		settings.IsPaused = *update.IsPaused
	}
	if update.WeeklyReportFrequency != nil {
		settings.WeeklyReportFrequency = *update.WeeklyReportFrequency
	}
	if update.ReminderFrequency != nil {
		settings.ReminderFrequency = *update.ReminderFrequency
	}
	if update.DarkTheme != nil {
		settings.DarkTheme = *update.DarkTheme
	}
}

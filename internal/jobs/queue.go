package jobs

import (
	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/models"
)

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueSettingsSync(auth backend.Auth, update models.SettingsUpdate) error
}

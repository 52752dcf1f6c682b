package jobs

import (
	"context"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	syncPool *worker.Pool
	client   backend.ClientInterface
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(syncPool *worker.Pool, client backend.ClientInterface) JobQueue {
	return &WorkerQueue{
		syncPool: syncPool,
		client:   client,
	}
}

func (q *WorkerQueue) EnqueueSettingsSync(auth backend.Auth, update models.SettingsUpdate) error {
	return q.syncPool.Submit(&settingsSyncJob{
		client: q.client,
		auth:   auth,
		update: update,
	})
}

// settingsSyncJob mirrors a locally applied settings change to the
// backend. The local write already succeeded; a failure here only costs
// cross-device consistency, so it is logged and dropped.
type settingsSyncJob struct {
	client backend.ClientInterface
	auth   backend.Auth
	update models.SettingsUpdate
}

func (j *settingsSyncJob) Name() string { return "settings-sync" }

func (j *settingsSyncJob) Run(ctx context.Context) error {
	_, err := j.client.UpdateSettings(ctx, j.auth, j.update)
	return err
}

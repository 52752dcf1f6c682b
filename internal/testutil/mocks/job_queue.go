package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueSettingsSync(auth backend.Auth, update models.SettingsUpdate) error {
	args := m.Called(auth, update)
	return args.Error(0)
}

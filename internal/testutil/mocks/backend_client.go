package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/models"
)

// MockBackendClient is a mock implementation of backend.ClientInterface
type MockBackendClient struct {
	mock.Mock
}

func (m *MockBackendClient) GetCurrentUser(ctx context.Context, auth backend.Auth) (*models.User, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackendClient) GetFocusSpheres(ctx context.Context, auth backend.Auth) ([]string, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackendClient) UpdateFocusSpheres(ctx context.Context, auth backend.Auth, spheres []string) error {
	args := m.Called(ctx, auth, spheres)
	return args.Error(0)
}

func (m *MockBackendClient) GetDailyQuestion(ctx context.Context, auth backend.Auth, sphereKey string) (*models.Question, error) {
	args := m.Called(ctx, auth, sphereKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockBackendClient) SubmitAnswer(ctx context.Context, auth backend.Auth, questionID int64, text string) error {
	args := m.Called(ctx, auth, questionID, text)
	return args.Error(0)
}

func (m *MockBackendClient) GetSphereRatings(ctx context.Context, auth backend.Auth) ([]models.SphereRating, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SphereRating), args.Error(1)
}

func (m *MockBackendClient) CreateSphereRatings(ctx context.Context, auth backend.Auth, ratings map[string]int) error {
	args := m.Called(ctx, auth, ratings)
	return args.Error(0)
}

func (m *MockBackendClient) GetWeeklySummary(ctx context.Context, auth backend.Auth) (*models.WeeklySummary, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeeklySummary), args.Error(1)
}

func (m *MockBackendClient) GetMonthlyReport(ctx context.Context, auth backend.Auth) (*models.MonthlyReport, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlyReport), args.Error(1)
}

func (m *MockBackendClient) GetSettings(ctx context.Context, auth backend.Auth) (*models.Settings, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockBackendClient) UpdateSettings(ctx context.Context, auth backend.Auth, update models.SettingsUpdate) (*models.Settings, error) {
	args := m.Called(ctx, auth, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

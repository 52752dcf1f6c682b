package backend

import (
	"context"

	"github.com/ivmel/reflecta/internal/models"
)

// ClientInterface defines the operations the reflection backend exposes.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	GetCurrentUser(ctx context.Context, auth Auth) (*models.User, error)
	GetFocusSpheres(ctx context.Context, auth Auth) ([]string, error)
	UpdateFocusSpheres(ctx context.Context, auth Auth, spheres []string) error
	GetDailyQuestion(ctx context.Context, auth Auth, sphereKey string) (*models.Question, error)
	SubmitAnswer(ctx context.Context, auth Auth, questionID int64, text string) error
	GetSphereRatings(ctx context.Context, auth Auth) ([]models.SphereRating, error)
	CreateSphereRatings(ctx context.Context, auth Auth, ratings map[string]int) error
	GetWeeklySummary(ctx context.Context, auth Auth) (*models.WeeklySummary, error)
	GetMonthlyReport(ctx context.Context, auth Auth) (*models.MonthlyReport, error)
	GetSettings(ctx context.Context, auth Auth) (*models.Settings, error)
	UpdateSettings(ctx context.Context, auth Auth, update models.SettingsUpdate) (*models.Settings, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

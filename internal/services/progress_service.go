package services

import (
	"context"
	"time"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/identity"
	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/models"
)

// ProgressService exposes the backend's aggregated views of a user's
// reflection history.
type ProgressService interface {
	Weekly(ctx context.Context, id identity.Identity) (*models.WeeklySummary, error)
	Monthly(ctx context.Context, id identity.Identity) (*models.MonthlyReport, error)
	Ratings(ctx context.Context, id identity.Identity) ([]models.SphereRating, error)
	SaveRatings(ctx context.Context, id identity.Identity, ratings map[string]int) error
}

type progressService struct {
	client     backend.ClientInterface
	attempts   int
	retryDelay time.Duration
	log        *logger.Logger
}

// NewProgressService creates a new ProgressService. Ratings reads are
// retried up to attempts times because the backend materializes them
// asynchronously right after onboarding.
func NewProgressService(client backend.ClientInterface, attempts int, retryDelay time.Duration) ProgressService {
	if attempts < 1 {
		attempts = 1
	}
	return &progressService{
		client:     client,
		attempts:   attempts,
		retryDelay: retryDelay,
		log:        logger.Default().WithPrefix("progress"),
	}
}

func (s *progressService) Weekly(ctx context.Context, id identity.Identity) (*models.WeeklySummary, error) {
	return s.client.GetWeeklySummary(ctx, id.Auth())
}

func (s *progressService) Monthly(ctx context.Context, id identity.Identity) (*models.MonthlyReport, error) {
	return s.client.GetMonthlyReport(ctx, id.Auth())
}

// Ratings fetches the caller's sphere ratings, retrying on failure or an
// empty result. After the last attempt the empty result is returned as
// is; an error on the last attempt is surfaced.
func (s *progressService) Ratings(ctx context.Context, id identity.Identity) ([]models.SphereRating, error) {
	var (
		ratings []models.SphereRating
		err     error
	)
	for attempt := 1; attempt <= s.attempts; attempt++ {
		ratings, err = s.client.GetSphereRatings(ctx, id.Auth())
		if err == nil && len(ratings) > 0 {
			return ratings, nil
		}
		if attempt == s.attempts {
			break
		}
		if err != nil {
			s.log.Debug("ratings fetch failed (attempt %d/%d): %v", attempt, s.attempts, err)
		} else {
			s.log.Debug("ratings empty (attempt %d/%d), retrying", attempt, s.attempts)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (s *progressService) SaveRatings(ctx context.Context, id identity.Identity, ratings map[string]int) error {
	return s.client.CreateSphereRatings(ctx, id.Auth(), ratings)
}

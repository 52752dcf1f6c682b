package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/identity"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/testutil/mocks"
)

func testIdentity() identity.Identity {
	return identity.Identity{GuestID: "g-123"}
}

func TestRatings_ReturnsOnFirstSuccess(t *testing.T) {
	client := new(mocks.MockBackendClient)
	id := testIdentity()
	want := []models.SphereRating{{Sphere: "health", Rating: 7}}
	client.On("GetSphereRatings", mock.Anything, id.Auth()).Return(want, nil).Once()

	svc := NewProgressService(client, 3, 0)
	got, err := svc.Ratings(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	client.AssertExpectations(t)
}

func TestRatings_RetriesWhileEmpty(t *testing.T) {
	client := new(mocks.MockBackendClient)
	id := testIdentity()
	want := []models.SphereRating{{Sphere: "money", Rating: 4}}
	client.On("GetSphereRatings", mock.Anything, id.Auth()).Return([]models.SphereRating{}, nil).Twice()
	client.On("GetSphereRatings", mock.Anything, id.Auth()).Return(want, nil).Once()

	svc := NewProgressService(client, 3, 0)
	got, err := svc.Ratings(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	client.AssertExpectations(t)
}

func TestRatings_SurfacesErrorAfterExhaustion(t *testing.T) {
	client := new(mocks.MockBackendClient)
	id := testIdentity()
	netErr := apperrors.NewNetworkError(errors.New("connection refused"))
	client.On("GetSphereRatings", mock.Anything, id.Auth()).Return(nil, netErr).Times(3)

	svc := NewProgressService(client, 3, 0)
	got, err := svc.Ratings(context.Background(), id)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNetwork))
	assert.Nil(t, got)
	client.AssertNumberOfCalls(t, "GetSphereRatings", 3)
}

func TestRatings_EmptyAfterExhaustionIsNotAnError(t *testing.T) {
	client := new(mocks.MockBackendClient)
	id := testIdentity()
	client.On("GetSphereRatings", mock.Anything, id.Auth()).Return([]models.SphereRating{}, nil).Times(3)

	svc := NewProgressService(client, 3, 0)
	got, err := svc.Ratings(context.Background(), id)

	require.NoError(t, err)
	assert.Empty(t, got)
	client.AssertNumberOfCalls(t, "GetSphereRatings", 3)
}

func TestWeekly_Passthrough(t *testing.T) {
	client := new(mocks.MockBackendClient)
	id := testIdentity()
	want := &models.WeeklySummary{StartDate: "2026-03-02", EndDate: "2026-03-08", AnswersCount: 5}
	client.On("GetWeeklySummary", mock.Anything, id.Auth()).Return(want, nil).Once()

	svc := NewProgressService(client, 3, 0)
	got, err := svc.Weekly(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMonthly_Passthrough(t *testing.T) {
	client := new(mocks.MockBackendClient)
	id := testIdentity()
	want := &models.MonthlyReport{Month: "2026-03", AnswersCount: 20}
	client.On("GetMonthlyReport", mock.Anything, id.Auth()).Return(want, nil).Once()

	svc := NewProgressService(client, 3, 0)
	got, err := svc.Monthly(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRatings_Passthrough(t *testing.T) {
	client := new(mocks.MockBackendClient)
	id := testIdentity()
	ratings := map[string]int{"health": 8, "career": 5}
	client.On("CreateSphereRatings", mock.Anything, id.Auth(), ratings).Return(nil).Once()

	svc := NewProgressService(client, 3, 0)
	require.NoError(t, svc.SaveRatings(context.Background(), id, ratings))
	client.AssertExpectations(t)
}

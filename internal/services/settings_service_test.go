package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/repository/sqlite"
	"github.com/ivmel/reflecta/internal/testutil"
	"github.com/ivmel/reflecta/internal/testutil/mocks"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestSettingsGet_CachesThemeLocally(t *testing.T) {
	db := testutil.NewTestDB(t)
	prefs := sqlite.NewPreferenceRepository(db.DB)
	client := new(mocks.MockBackendClient)
	queue := new(mocks.MockJobQueue)
	id := testIdentity()

	client.On("GetSettings", mock.Anything, id.Auth()).
		Return(&models.Settings{Language: "ru", DarkTheme: true}, nil).Once()

	svc := NewSettingsService(client, prefs, queue)
	settings, err := svc.Get(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, settings.DarkTheme)

	dark, err := prefs.DarkTheme(context.Background(), id.Key())
	require.NoError(t, err)
	assert.True(t, dark)
}

func TestSettingsGet_FallsBackToCachedTheme(t *testing.T) {
	db := testutil.NewTestDB(t)
	prefs := sqlite.NewPreferenceRepository(db.DB)
	require.NoError(t, prefs.SetDarkTheme(context.Background(), testIdentity().Key(), true))

	client := new(mocks.MockBackendClient)
	queue := new(mocks.MockJobQueue)
	id := testIdentity()
	client.On("GetSettings", mock.Anything, id.Auth()).
		Return(nil, apperrors.NewNetworkError(errors.New("dial tcp: timeout"))).Once()

	svc := NewSettingsService(client, prefs, queue)
	settings, err := svc.Get(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, settings.DarkTheme)
}

func TestSettingsGet_AuthErrorIsNotMasked(t *testing.T) {
	db := testutil.NewTestDB(t)
	prefs := sqlite.NewPreferenceRepository(db.DB)
	client := new(mocks.MockBackendClient)
	queue := new(mocks.MockJobQueue)
	id := testIdentity()
	client.On("GetSettings", mock.Anything, id.Auth()).
		Return(nil, apperrors.NewAuthError("invalid init data")).Once()

	svc := NewSettingsService(client, prefs, queue)
	_, err := svc.Get(context.Background(), id)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAuth))
}

func TestSettingsUpdate_WritesLocallyAndEnqueuesSync(t *testing.T) {
	db := testutil.NewTestDB(t)
	prefs := sqlite.NewPreferenceRepository(db.DB)
	client := new(mocks.MockBackendClient)
	queue := new(mocks.MockJobQueue)
	id := testIdentity()

	update := models.SettingsUpdate{DarkTheme: boolPtr(true), Language: strPtr("ru")}
	queue.On("EnqueueSettingsSync", id.Auth(), update).Return(nil).Once()
	client.On("GetSettings", mock.Anything, id.Auth()).
		Return(&models.Settings{Language: "en"}, nil).Once()

	svc := NewSettingsService(client, prefs, queue)
	settings, err := svc.Update(context.Background(), id, update)

	require.NoError(t, err)
	assert.True(t, settings.DarkTheme)
	assert.Equal(t, "ru", settings.Language)

	dark, err := prefs.DarkTheme(context.Background(), id.Key())
	require.NoError(t, err)
	assert.True(t, dark)
	queue.AssertExpectations(t)
	client.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettingsUpdate_FullQueueMirrorsInline(t *testing.T) {
	db := testutil.NewTestDB(t)
	prefs := sqlite.NewPreferenceRepository(db.DB)
	client := new(mocks.MockBackendClient)
	queue := new(mocks.MockJobQueue)
	id := testIdentity()

	update := models.SettingsUpdate{IsPaused: boolPtr(true)}
	queue.On("EnqueueSettingsSync", id.Auth(), update).
		Return(errors.New("job queue is full")).Once()
	client.On("UpdateSettings", mock.Anything, id.Auth(), update).
		Return(&models.Settings{IsPaused: true}, nil).Once()

	svc := NewSettingsService(client, prefs, queue)
	settings, err := svc.Update(context.Background(), id, update)

	require.NoError(t, err)
	assert.True(t, settings.IsPaused)
	client.AssertExpectations(t)
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/user/models"
)

func newTestLogger(t *testing.T) *logger.Logger {
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      "debug",
		Format:     "console",
		OutputPath: "stdout",
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return log
}

// fakeRepo keeps settings in a map keyed by user id.
type fakeRepo struct {
	settings map[string]*models.Settings
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{settings: make(map[string]*models.Settings)}
}

func (r *fakeRepo) CreateUser(ctx context.Context, user *models.User) error { return nil }

func (r *fakeRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return nil, fmt.Errorf("%w: user %s", apperr.ErrNoRecord, id)
}

func (r *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, fmt.Errorf("%w: user %s", apperr.ErrNoRecord, email)
}

func (r *fakeRepo) CreateSettings(ctx context.Context, settings *models.Settings) error {
	r.settings[settings.UserID] = settings
	return nil
}

func (r *fakeRepo) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	s, ok := r.settings[userID]
	if !ok {
		return nil, fmt.Errorf("%w: settings for user %s", apperr.ErrNoRecord, userID)
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	if _, ok := r.settings[settings.UserID]; !ok {
		return fmt.Errorf("%w: settings for user %s", apperr.ErrNoRecord, settings.UserID)
	}
	settings.UpdatedAt = time.Now().UTC()
	r.settings[settings.UserID] = settings
	return nil
}

func (r *fakeRepo) DeleteSettings(ctx context.Context, userID string) error {
	if _, ok := r.settings[userID]; !ok {
		return fmt.Errorf("%w: settings for user %s", apperr.ErrNoRecord, userID)
	}
	delete(r.settings, userID)
	return nil
}

func TestGetSettings_MissingRowIsNotAnError(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, newTestLogger(t))

	settings, err := svc.GetSettings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, settings)
}

func TestGetSettings_ReturnsExistingRow(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.CreateSettings(context.Background(), &models.Settings{
		ID:       "s-1",
		UserID:   "user-1",
		DarkMode: true,
		Language: "de",
	}))
	svc := NewService(repo, nil, newTestLogger(t))

	settings, err := svc.GetSettings(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.True(t, settings.DarkMode)
	assert.Equal(t, "de", settings.Language)
}

func TestUpdateSettings_ReplacesAllFields(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.CreateSettings(context.Background(), &models.Settings{
		ID:       "s-1",
		UserID:   "user-1",
		DarkMode: false,
		Language: "en",
	}))
	svc := NewService(repo, nil, newTestLogger(t))

	updated, err := svc.UpdateSettings(context.Background(), "user-1", &UpdateSettingsRequest{
		DarkMode: true,
		Language: "fr",
	})
	require.NoError(t, err)
	assert.True(t, updated.DarkMode)
	assert.Equal(t, "fr", updated.Language)

	stored, err := repo.GetSettings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, stored.DarkMode)
	assert.Equal(t, "fr", stored.Language)
}

func TestUpdateSettings_MissingRowFails(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, newTestLogger(t))

	_, err := svc.UpdateSettings(context.Background(), "user-1", &UpdateSettingsRequest{
		DarkMode: true,
		Language: "en",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNoRecord)
}

func TestDeleteSettings(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.CreateSettings(context.Background(), &models.Settings{
		ID:     "s-1",
		UserID: "user-1",
	}))
	svc := NewService(repo, nil, newTestLogger(t))

	require.NoError(t, svc.DeleteSettings(context.Background(), "user-1"))

	settings, err := svc.GetSettings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, settings)

	err = svc.DeleteSettings(context.Background(), "user-1")
	assert.ErrorIs(t, err, apperr.ErrNoRecord)
}

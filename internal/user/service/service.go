// Package service implements user settings operations.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/events"
	"github.com/artflow/artflow/internal/events/bus"
	"github.com/artflow/artflow/internal/user/models"
	"github.com/artflow/artflow/internal/user/store"
)

type Service struct {
	repo     store.Repository
	eventBus bus.EventBus
	logger   *logger.Logger
}

// UpdateSettingsRequest replaces the full preference set for a user.
type UpdateSettingsRequest struct {
	DarkMode bool
	Language string
}

func NewService(repo store.Repository, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "user-service")),
	}
}

// GetSettings returns the user's settings, or nil when none exist yet.
// A missing row is not an error; the client treats it as defaults.
func (s *Service) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if errors.Is(err, apperr.ErrNoRecord) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings replaces darkMode and language for an existing row.
// It fails with not-found when the user has no settings row.
func (s *Service) UpdateSettings(ctx context.Context, userID string, req *UpdateSettingsRequest) (*models.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.DarkMode = req.DarkMode
	settings.Language = req.Language
	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	s.publish(ctx, events.SettingsUpdated, settings)
	return settings, nil
}

// DeleteSettings removes the user's settings row.
func (s *Service) DeleteSettings(ctx context.Context, userID string) error {
	if err := s.repo.DeleteSettings(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, events.SettingsDeleted, &models.Settings{UserID: userID})
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, settings *models.Settings) {
	if s.eventBus == nil || settings == nil {
		return
	}
	data := map[string]interface{}{
		"user_id":    settings.UserID,
		"dark_mode":  settings.DarkMode,
		"language":   settings.Language,
		"updated_at": settings.UpdatedAt.Format(time.RFC3339),
	}
	if err := s.eventBus.Publish(ctx, eventType, bus.NewEvent(eventType, "user-service", data)); err != nil {
		s.logger.Error("failed to publish settings event", zap.Error(err))
	}
}

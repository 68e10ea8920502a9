// Package service implements content-calendar operations.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/content/models"
	"github.com/artflow/artflow/internal/content/store"
	"github.com/artflow/artflow/internal/events"
	"github.com/artflow/artflow/internal/events/bus"
)

type Service struct {
	repo     store.Repository
	eventBus bus.EventBus
	logger   *logger.Logger
}

func NewService(repo store.Repository, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "content-service")),
	}
}

// CreateRequest carries the fields for a new content idea.
type CreateRequest struct {
	Title    string
	Platform string
	Deadline string
	Details  string
}

// UpdateRequest carries a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Title    *string
	Platform *string
	Deadline *string
	Done     *bool
	Details  *string
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Idea, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*models.Idea, error) {
	return s.repo.Get(ctx, id, userID)
}

func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.Idea, error) {
	idea := &models.Idea{
		UserID:   userID,
		Title:    req.Title,
		Platform: req.Platform,
		Deadline: req.Deadline,
		Details:  req.Details,
	}
	if err := s.repo.Create(ctx, idea); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ContentIdeaCreated, userID, idea.ID)
	return idea, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, req *UpdateRequest) (*models.Idea, error) {
	idea, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		idea.Title = *req.Title
	}
	if req.Platform != nil {
		idea.Platform = *req.Platform
	}
	if req.Deadline != nil {
		idea.Deadline = *req.Deadline
	}
	if req.Done != nil {
		idea.Done = *req.Done
	}
	if req.Details != nil {
		idea.Details = *req.Details
	}

	if err := s.repo.Update(ctx, idea); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ContentIdeaUpdated, userID, idea.ID)
	return idea, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.publish(ctx, events.ContentIdeaDeleted, userID, id)
	return nil
}

func (s *Service) publish(ctx context.Context, eventType, userID, ideaID string) {
	if s.eventBus == nil {
		return
	}
	data := map[string]interface{}{
		"user_id": userID,
		"idea_id": ideaID,
	}
	if err := s.eventBus.Publish(ctx, eventType, bus.NewEvent(eventType, "content-service", data)); err != nil {
		s.logger.Error("failed to publish content event", zap.Error(err))
	}
}

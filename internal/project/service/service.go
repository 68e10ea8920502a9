// Package service implements project operations.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/events"
	"github.com/artflow/artflow/internal/events/bus"
	"github.com/artflow/artflow/internal/project/models"
	"github.com/artflow/artflow/internal/project/store"
)

// Valid project statuses.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
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
		logger:   log.WithFields(zap.String("component", "project-service")),
	}
}

// CreateRequest carries the fields for a new project.
type CreateRequest struct {
	Title       string
	Description string
	Deadline    string
	Status      string
	Steps       []models.Step
}

// UpdateRequest carries a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Title       *string
	Description *string
	Deadline    *string
	Status      *string
	Steps       *[]models.Step
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Project, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*models.Project, error) {
	return s.repo.Get(ctx, id, userID)
}

func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.Project, error) {
	status := req.Status
	if status == "" {
		status = StatusNotStarted
	}
	project := &models.Project{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      status,
		Steps:       req.Steps,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProjectCreated, userID, project)
	return project, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, req *UpdateRequest) (*models.Project, error) {
	project, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Deadline != nil {
		project.Deadline = *req.Deadline
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Steps != nil {
		project.Steps = *req.Steps
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ProjectUpdated, userID, project)
	return project, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.publish(ctx, events.ProjectDeleted, userID, &models.Project{ID: id, UserID: userID})
	return nil
}

func (s *Service) publish(ctx context.Context, eventType, userID string, project *models.Project) {
	if s.eventBus == nil {
		return
	}
	data := map[string]interface{}{
		"user_id":    userID,
		"project_id": project.ID,
	}
	if err := s.eventBus.Publish(ctx, eventType, bus.NewEvent(eventType, "project-service", data)); err != nil {
		s.logger.Error("failed to publish project event", zap.Error(err))
	}
}

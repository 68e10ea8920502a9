// Package service implements prompt operations on top of the store.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/common/stringutil"
	"github.com/artflow/artflow/internal/events"
	"github.com/artflow/artflow/internal/events/bus"
	"github.com/artflow/artflow/internal/prompt/models"
	"github.com/artflow/artflow/internal/prompt/store"
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
		logger:   log.WithFields(zap.String("component", "prompt-service")),
	}
}

// CreateRequest carries the fields for a new prompt.
type CreateRequest struct {
	Title    string
	Text     string
	Position int
}

// UpdateRequest carries a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Title    *string
	Text     *string
	Position *int
	Saved    *time.Time
}

func (s *Service) List(ctx context.Context, userID, search string) ([]*models.Prompt, error) {
	return s.repo.List(ctx, userID, search)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*models.Prompt, error) {
	return s.repo.Get(ctx, id, userID)
}

func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.Prompt, error) {
	prompt := &models.Prompt{
		UserID:   userID,
		Title:    req.Title,
		Text:     req.Text,
		Position: req.Position,
	}
	if err := s.repo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	s.logger.Info("prompt created",
		zap.String("prompt_id", prompt.ID),
		zap.String("user_id", userID),
		zap.String("title", stringutil.TruncateStringWithEllipsis(prompt.Title, 60)))
	s.publish(ctx, events.PromptCreated, userID, map[string]interface{}{"prompt": prompt})
	return prompt, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, req *UpdateRequest) (*models.Prompt, error) {
	prompt, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		prompt.Title = *req.Title
	}
	if req.Text != nil {
		prompt.Text = *req.Text
	}
	if req.Position != nil {
		prompt.Position = *req.Position
	}
	if req.Saved != nil {
		prompt.Saved = req.Saved
	}

	if err := s.repo.Update(ctx, prompt); err != nil {
		return nil, err
	}
	s.publish(ctx, events.PromptUpdated, userID, map[string]interface{}{"prompt": prompt})
	return prompt, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.publish(ctx, events.PromptDeleted, userID, map[string]interface{}{"prompt_id": id})
	return nil
}

// Reorder applies the new positions atomically and returns the updated
// records in batch order. A single foreign or unknown id fails the whole
// batch.
func (s *Service) Reorder(ctx context.Context, userID string, items []store.ReorderItem) ([]*models.Prompt, error) {
	if err := s.repo.Reorder(ctx, userID, items); err != nil {
		return nil, err
	}

	prompts := make([]*models.Prompt, 0, len(items))
	for _, item := range items {
		prompt, err := s.repo.Get(ctx, item.ID, userID)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, prompt)
	}

	s.publish(ctx, events.PromptReordered, userID, map[string]interface{}{"count": len(items)})
	return prompts, nil
}

// Save stamps the prompt as saved now and returns the updated record.
func (s *Service) Save(ctx context.Context, id, userID string) (*models.Prompt, error) {
	now := time.Now().UTC()
	if err := s.repo.MarkSaved(ctx, id, userID, now); err != nil {
		return nil, err
	}
	prompt, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.PromptSaved, userID, map[string]interface{}{"prompt": prompt})
	return prompt, nil
}

func (s *Service) publish(ctx context.Context, eventType, userID string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	data["user_id"] = userID
	if err := s.eventBus.Publish(ctx, eventType, bus.NewEvent(eventType, "prompt-service", data)); err != nil {
		s.logger.Error("failed to publish prompt event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

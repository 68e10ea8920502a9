package store

import (
	"context"

	"github.com/artflow/artflow/internal/content/models"
)

// Repository persists content ideas, scoped to the owning user.
type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Idea, error)
	Get(ctx context.Context, id, userID string) (*models.Idea, error)
	Create(ctx context.Context, idea *models.Idea) error
	Update(ctx context.Context, idea *models.Idea) error
	Delete(ctx context.Context, id, userID string) error
}

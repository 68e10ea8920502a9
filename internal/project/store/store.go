package store

import (
	"context"

	"github.com/artflow/artflow/internal/project/models"
)

// Repository persists projects, scoped to the owning user.
type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Project, error)
	Get(ctx context.Context, id, userID string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id, userID string) error
}

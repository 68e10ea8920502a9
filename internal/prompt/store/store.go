package store

import (
	"context"
	"time"

	"github.com/artflow/artflow/internal/prompt/models"
)

// ReorderItem assigns a new position to one prompt.
type ReorderItem struct {
	ID       string `json:"id"`
	Position int    `json:"order"`
}

// Repository persists prompts. Every operation is scoped to the owning
// user; a prompt belonging to someone else behaves as if it did not exist.
type Repository interface {
	List(ctx context.Context, userID, search string) ([]*models.Prompt, error)
	Get(ctx context.Context, id, userID string) (*models.Prompt, error)
	Create(ctx context.Context, prompt *models.Prompt) error
	Update(ctx context.Context, prompt *models.Prompt) error
	Delete(ctx context.Context, id, userID string) error
	Reorder(ctx context.Context, userID string, items []ReorderItem) error
	MarkSaved(ctx context.Context, id, userID string, at time.Time) error
}

package store

import (
	"context"

	"github.com/artflow/artflow/internal/user/models"
)

// Repository persists users and their settings.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateSettings(ctx context.Context, settings *models.Settings) error
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, settings *models.Settings) error
	DeleteSettings(ctx context.Context, userID string) error
}

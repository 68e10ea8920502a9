package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/events"
	"github.com/artflow/artflow/internal/events/bus"
	"github.com/artflow/artflow/internal/user/models"
	"github.com/artflow/artflow/internal/user/store"
)

// Service implements account registration and login.
type Service struct {
	repo     store.Repository
	tokens   *TokenManager
	eventBus bus.EventBus
	logger   *logger.Logger
}

func NewService(repo store.Repository, tokens *TokenManager, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "auth-service")),
	}
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// Register creates the account, provisions default settings and issues a
// token. A duplicate email surfaces as a unique violation and becomes a
// 409 at the HTTP layer.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, "", apperr.BadRequest("Email is required")
	}
	if len(req.Password) < 8 {
		return nil, "", apperr.BadRequest("Password must be at least 8 characters")
	}
	if !s.tokens.Configured() {
		return nil, "", apperr.New(http.StatusInternalServerError, "Server configuration error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	// Every account gets a settings row so the preferences endpoints
	// have something to replace.
	if err := s.repo.CreateSettings(ctx, models.DefaultSettings(user.ID)); err != nil {
		s.logger.WithError(err).Warn("failed to provision settings", zap.String("user_id", user.ID))
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}

	s.publishRegistered(ctx, user)
	return user, token, nil
}

// Login verifies the credentials and issues a token.
func (s *Service) Login(ctx context.Context, creds *Credentials) (*models.User, string, error) {
	if !s.tokens.Configured() {
		return nil, "", apperr.New(http.StatusInternalServerError, "Server configuration error")
	}

	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNoRecord) {
			return nil, "", apperr.Unauthorized("Invalid email or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser loads the account behind a set of verified claims.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (*models.User, error) {
	return s.repo.GetUserByID(ctx, claims.ID)
}

func (s *Service) publishRegistered(ctx context.Context, user *models.User) {
	if s.eventBus == nil {
		return
	}
	data := map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	}
	if err := s.eventBus.Publish(ctx, events.UserRegistered, bus.NewEvent(events.UserRegistered, "auth-service", data)); err != nil {
		s.logger.Error("failed to publish registration event", zap.Error(err))
	}
}

package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/common/config"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/db/dialect"
	userstore "github.com/artflow/artflow/internal/user/store"
)

func newAuthTestLogger(t *testing.T) *logger.Logger {
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

func newAuthService(t *testing.T, secret string) (*Service, *userstore.SQLRepository) {
	t.Helper()

	pool, err := db.Open(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "artflow.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	repo, err := userstore.NewSQLRepository(pool)
	require.NoError(t, err)

	tokens := NewTokenManager(config.AuthConfig{JWTSecret: secret, TokenDuration: 3600})
	return NewService(repo, tokens, nil, newAuthTestLogger(t)), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newAuthService(t, "test-secret")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, &RegisterRequest{
		Email:    "  Alex@Example.COM ",
		Password: "correct horse",
		Name:     "Alex",
	})
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email, "email is normalized")
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	// Registration provisions a settings row.
	settings, err := repo.GetSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "en", settings.Language)
	assert.False(t, settings.DarkMode)

	logged, token, err := svc.Login(ctx, &Credentials{
		Email:    "alex@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &RegisterRequest{Email: "", Password: "long enough"})
	requireAppError(t, err, 400, "Email is required")

	_, _, err = svc.Register(ctx, &RegisterRequest{Email: "a@b.c", Password: "short"})
	requireAppError(t, err, 400, "Password must be at least 8 characters")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &RegisterRequest{Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, &RegisterRequest{Email: "dup@example.com", Password: "password2"})
	require.Error(t, err)
	assert.True(t, dialect.IsUniqueViolation(err), "duplicate email must surface as a unique violation, got %v", err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &RegisterRequest{Email: "alex@example.com", Password: "correct horse"})
	require.NoError(t, err)

	// Unknown account and wrong password produce the same message.
	_, _, err = svc.Login(ctx, &Credentials{Email: "nobody@example.com", Password: "whatever1"})
	requireAppError(t, err, 401, "Invalid email or password")

	_, _, err = svc.Login(ctx, &Credentials{Email: "alex@example.com", Password: "wrong horse"})
	requireAppError(t, err, 401, "Invalid email or password")
}

func TestAuthWithoutSecretFails(t *testing.T) {
	svc, _ := newAuthService(t, "")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.c", Password: "long enough"})
	requireAppError(t, err, 500, "Server configuration error")

	_, _, err = svc.Login(ctx, &Credentials{Email: "a@b.c", Password: "long enough"})
	requireAppError(t, err, 500, "Server configuration error")
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	user, _, err := svc.Register(ctx, &RegisterRequest{Email: "me@example.com", Password: "password1", Name: "Me"})
	require.NoError(t, err)

	got, err := svc.CurrentUser(ctx, &Claims{ID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", got.Email)

	_, err = svc.CurrentUser(ctx, &Claims{ID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrNoRecord)
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected an application error, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, message, appErr.Message)
}

package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artflow/artflow/internal/auth"
	"github.com/artflow/artflow/internal/common/config"
	"github.com/artflow/artflow/internal/common/httpmw"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/user/models"
	"github.com/artflow/artflow/internal/user/service"
	userstore "github.com/artflow/artflow/internal/user/store"
)

func newTestLogger(t *testing.T) *logger.Logger {
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

func newSettingsAPI(t *testing.T, withSettings bool) (*gin.Engine, string) {
	t.Helper()
	log := newTestLogger(t)

	pool, err := db.Open(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "artflow.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	repo, err := userstore.NewSQLRepository(pool)
	require.NoError(t, err)

	user := &models.User{Email: "settings@example.com", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	if withSettings {
		require.NoError(t, repo.CreateSettings(context.Background(), models.DefaultSettings(user.ID)))
	}

	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", TokenDuration: 3600})
	token, err := tokens.Generate(user.ID, user.Email, "")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(httpmw.ErrorHandler(log, false))
	protected := router.Group("/api")
	protected.Use(auth.Require(tokens))
	RegisterRoutes(protected, service.NewService(repo, nil, log), log)

	return router, token
}

func doSettings(router *gin.Engine, token, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/settings", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetSettingsWithoutRowReturnsNull(t *testing.T) {
	router, token := newSettingsAPI(t, false)

	w := doSettings(router, token, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestGetSettingsReturnsBareObject(t *testing.T) {
	router, token := newSettingsAPI(t, true)

	w := doSettings(router, token, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	// Bare settings object, no envelope.
	assert.NotContains(t, w.Body.String(), `"success"`)
	assert.Contains(t, w.Body.String(), `"darkMode":false`)
	assert.Contains(t, w.Body.String(), `"language":"en"`)
}

func TestUpdateSettings(t *testing.T) {
	router, token := newSettingsAPI(t, true)

	w := doSettings(router, token, http.MethodPut, `{"darkMode":true,"language":"fr"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"darkMode":true`)
	assert.Contains(t, w.Body.String(), `"language":"fr"`)
}

func TestUpdateSettingsWithoutRowIs404(t *testing.T) {
	router, token := newSettingsAPI(t, false)

	w := doSettings(router, token, http.MethodPut, `{"darkMode":true,"language":"fr"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Record not found"}`, w.Body.String())
}

func TestDeleteSettings(t *testing.T) {
	router, token := newSettingsAPI(t, true)

	w := doSettings(router, token, http.MethodDelete, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Settings deleted successfully"}`, w.Body.String())

	w = doSettings(router, token, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

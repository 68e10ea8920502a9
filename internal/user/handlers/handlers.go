// Package handlers exposes the user settings HTTP routes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/auth"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/user/service"
)

type Handlers struct {
	svc    *service.Service
	logger *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: log.WithFields(zap.String("component", "user-handlers")),
	}
}

// RegisterRoutes mounts the settings routes on an authenticated group.
func RegisterRoutes(api *gin.RouterGroup, svc *service.Service, log *logger.Logger) {
	h := NewHandlers(svc, log)
	api.GET("/settings", h.getSettings)
	api.PUT("/settings", h.updateSettings)
	api.DELETE("/settings", h.deleteSettings)
}

// getSettings returns the raw settings object, or null when the user has
// none yet. This endpoint predates the response envelope and clients rely
// on the bare shape.
func (h *Handlers) getSettings(c *gin.Context) {
	settings, err := h.svc.GetSettings(c.Request.Context(), auth.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	if settings == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type updateSettingsRequest struct {
	DarkMode bool   `json:"darkMode"`
	Language string `json:"language"`
}

func (h *Handlers) updateSettings(c *gin.Context) {
	var body updateSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	settings, err := h.svc.UpdateSettings(c.Request.Context(), auth.UserID(c), &service.UpdateSettingsRequest{
		DarkMode: body.DarkMode,
		Language: body.Language,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": settings})
}

func (h *Handlers) deleteSettings(c *gin.Context) {
	if err := h.svc.DeleteSettings(c.Request.Context(), auth.UserID(c)); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Settings deleted successfully"})
}

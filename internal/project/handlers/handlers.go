// Package handlers exposes the project HTTP routes.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/auth"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/project/models"
	"github.com/artflow/artflow/internal/project/service"
)

type Handlers struct {
	svc    *service.Service
	logger *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: log.WithFields(zap.String("component", "project-handlers")),
	}
}

func RegisterRoutes(api *gin.RouterGroup, svc *service.Service, log *logger.Logger) {
	h := NewHandlers(svc, log)
	projects := api.Group("/projects")
	projects.GET("", h.list)
	projects.GET("/:id", h.get)
	projects.POST("", h.create)
	projects.PUT("/:id", h.update)
	projects.DELETE("/:id", h.delete)
}

func (h *Handlers) list(c *gin.Context) {
	projects, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": projects})
}

func (h *Handlers) get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

type createRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Deadline    string        `json:"deadline"`
	Status      string        `json:"status"`
	Steps       []models.Step `json:"steps"`
}

func (h *Handlers) create(c *gin.Context) {
	var body createRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title is required"})
		return
	}

	project, err := h.svc.Create(c.Request.Context(), auth.UserID(c), &service.CreateRequest{
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		Deadline:    body.Deadline,
		Status:      body.Status,
		Steps:       body.Steps,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": project})
}

type updateRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Deadline    *string        `json:"deadline,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Steps       *[]models.Step `json:"steps,omitempty"`
}

func (h *Handlers) update(c *gin.Context) {
	var body updateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	project, err := h.svc.Update(c.Request.Context(), c.Param("id"), auth.UserID(c), &service.UpdateRequest{
		Title:       body.Title,
		Description: body.Description,
		Deadline:    body.Deadline,
		Status:      body.Status,
		Steps:       body.Steps,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

func (h *Handlers) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
}

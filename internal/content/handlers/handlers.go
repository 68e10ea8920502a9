// Package handlers exposes the content-calendar HTTP routes.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/auth"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/content/service"
)

type Handlers struct {
	svc    *service.Service
	logger *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: log.WithFields(zap.String("component", "content-handlers")),
	}
}

func RegisterRoutes(api *gin.RouterGroup, svc *service.Service, log *logger.Logger) {
	h := NewHandlers(svc, log)
	ideas := api.Group("/content-ideas")
	ideas.GET("", h.list)
	ideas.GET("/:id", h.get)
	ideas.POST("", h.create)
	ideas.PUT("/:id", h.update)
	ideas.DELETE("/:id", h.delete)
}

func (h *Handlers) list(c *gin.Context) {
	ideas, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ideas})
}

func (h *Handlers) get(c *gin.Context) {
	idea, err := h.svc.Get(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": idea})
}

type createRequest struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Deadline string `json:"deadline"`
	Details  string `json:"details"`
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

	idea, err := h.svc.Create(c.Request.Context(), auth.UserID(c), &service.CreateRequest{
		Title:    strings.TrimSpace(body.Title),
		Platform: body.Platform,
		Deadline: body.Deadline,
		Details:  body.Details,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": idea})
}

type updateRequest struct {
	Title    *string `json:"title,omitempty"`
	Platform *string `json:"platform,omitempty"`
	Deadline *string `json:"deadline,omitempty"`
	Done     *bool   `json:"done,omitempty"`
	Details  *string `json:"details,omitempty"`
}

func (h *Handlers) update(c *gin.Context) {
	var body updateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	idea, err := h.svc.Update(c.Request.Context(), c.Param("id"), auth.UserID(c), &service.UpdateRequest{
		Title:    body.Title,
		Platform: body.Platform,
		Deadline: body.Deadline,
		Done:     body.Done,
		Details:  body.Details,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": idea})
}

func (h *Handlers) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Content idea deleted successfully"})
}

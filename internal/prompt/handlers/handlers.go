// Package handlers exposes the prompt HTTP routes.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/auth"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/prompt/service"
	"github.com/artflow/artflow/internal/prompt/store"
)

type Handlers struct {
	svc    *service.Service
	logger *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: log.WithFields(zap.String("component", "prompt-handlers")),
	}
}

// RegisterRoutes mounts the prompt routes on an authenticated group.
// The static reorder route is registered alongside the :id routes; the
// router matches static segments first.
func RegisterRoutes(api *gin.RouterGroup, svc *service.Service, log *logger.Logger) {
	h := NewHandlers(svc, log)
	prompts := api.Group("/prompts")
	prompts.GET("", h.list)
	prompts.GET("/:id", h.get)
	prompts.POST("", h.create)
	prompts.PUT("/reorder", h.reorder)
	prompts.PUT("/:id", h.update)
	prompts.DELETE("/:id", h.delete)
	prompts.POST("/save/:id", h.save)
}

func (h *Handlers) list(c *gin.Context) {
	search := strings.TrimSpace(c.Query("q"))
	prompts, err := h.svc.List(c.Request.Context(), auth.UserID(c), search)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prompts})
}

func (h *Handlers) get(c *gin.Context) {
	prompt, err := h.svc.Get(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prompt})
}

type createRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Order int    `json:"order"`
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

	prompt, err := h.svc.Create(c.Request.Context(), auth.UserID(c), &service.CreateRequest{
		Title:    strings.TrimSpace(body.Title),
		Text:     body.Text,
		Position: body.Order,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prompt})
}

type updateRequest struct {
	Title *string    `json:"title,omitempty"`
	Text  *string    `json:"text,omitempty"`
	Order *int       `json:"order,omitempty"`
	Saved *time.Time `json:"saved,omitempty"`
}

func (h *Handlers) update(c *gin.Context) {
	var body updateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	prompt, err := h.svc.Update(c.Request.Context(), c.Param("id"), auth.UserID(c), &service.UpdateRequest{
		Title:    body.Title,
		Text:     body.Text,
		Position: body.Order,
		Saved:    body.Saved,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prompt})
}

func (h *Handlers) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prompt deleted successfully"})
}

func (h *Handlers) reorder(c *gin.Context) {
	var items []store.ReorderItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	prompts, err := h.svc.Reorder(c.Request.Context(), auth.UserID(c), items)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prompts})
}

func (h *Handlers) save(c *gin.Context) {
	prompt, err := h.svc.Save(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prompt})
}

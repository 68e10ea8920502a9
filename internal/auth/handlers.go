package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/logger"
)

// Handlers exposes the /api/auth routes.
type Handlers struct {
	svc    *Service
	logger *logger.Logger
}

func NewHandlers(svc *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: log.WithFields(zap.String("component", "auth-handlers")),
	}
}

// RegisterRoutes mounts register/login on the public group and me on the
// authenticated group.
func RegisterRoutes(public, protected *gin.RouterGroup, svc *Service, log *logger.Logger) {
	h := NewHandlers(svc, log)
	public.POST("/auth/register", h.register)
	public.POST("/auth/login", h.login)
	protected.GET("/auth/me", h.me)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), &RegisterRequest{
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"user": user, "token": token},
	})
}

func (h *Handlers) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), &Credentials{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": user, "token": token},
	})
}

func (h *Handlers) me(c *gin.Context) {
	claims, ok := CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "No token provided"})
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

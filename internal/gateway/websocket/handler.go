package websocket

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/auth"
	"github.com/artflow/artflow/internal/common/logger"
	ws "github.com/artflow/artflow/pkg/websocket"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin access is governed by the token check below.
		return true
	},
}

// Handler authenticates and upgrades WebSocket connections.
type Handler struct {
	hub    *Hub
	tokens *auth.TokenManager
	logger *logger.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, tokens *auth.TokenManager, log *logger.Logger) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		logger: log.WithFields(zap.String("component", "ws_handler")),
	}
}

// HandleConnection verifies the caller's token, upgrades the connection and
// starts the read and write pumps. Tokens arrive either as a ?token= query
// parameter or a standard Authorization header.
func (h *Handler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token, _ = auth.BearerToken(c)
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "No token provided",
		})
		return
	}

	claims, err := h.tokens.Verify(token)
	if err != nil {
		status := http.StatusUnauthorized
		message := "Invalid token"
		switch {
		case errors.Is(err, auth.ErrNoSecret):
			status = http.StatusInternalServerError
			message = "Server configuration error"
		case errors.Is(err, jwt.ErrTokenExpired):
			message = "Token expired"
		}
		c.JSON(status, gin.H{"success": false, "error": message})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, claims.ID, h.logger)

	h.logger.Debug("WebSocket connection established",
		zap.String("client_id", client.ID),
		zap.String("user_id", claims.ID),
		zap.String("remote_addr", c.Request.RemoteAddr),
	)

	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(c.Request.Context())
}

// RegisterHealthHandler registers the health check handler
func RegisterHealthHandler(d *ws.Dispatcher) {
	d.RegisterFunc(ws.ActionHealthCheck, func(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
		return ws.NewResponse(msg.ID, msg.Action, map[string]interface{}{
			"status":  "ok",
			"service": "artflow",
		})
	})
}

package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/logger"
	ws "github.com/artflow/artflow/pkg/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// Client represents a single WebSocket connection bound to a user.
type Client struct {
	ID     string
	UserID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	logger *logger.Logger
}

// NewClient creates a new client for an authenticated connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, log *logger.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		ID:     id,
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: log.WithFields(
			zap.String("client_id", id),
			zap.String("user_id", userID)),
	}
}

// ReadPump pumps messages from the WebSocket connection to the dispatcher.
// Runs in the connection's goroutine until the peer disconnects.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("", "", ws.ErrorCodeBadRequest, "Invalid message format")
			continue
		}

		c.handleMessage(ctx, &msg)
	}
}

// WritePump pumps messages from the send channel to the WebSocket
// connection and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, msg *ws.Message) {
	response, err := c.hub.GetDispatcher().Dispatch(ctx, msg)
	if err != nil {
		c.logger.Error("Failed to dispatch message",
			zap.String("action", msg.Action),
			zap.Error(err))
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeInternalError, "Failed to process message")
		return
	}
	if response != nil {
		c.Send(response)
	}
}

// Send queues a message for delivery to the client.
func (c *Client) Send(msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("Client send buffer full, dropping message")
	}
}

func (c *Client) sendError(requestID, action, code, message string) {
	msg, err := ws.NewError(requestID, action, code, message, nil)
	if err != nil {
		return
	}
	c.Send(msg)
}

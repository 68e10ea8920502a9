package websocket

import (
	"context"

	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/events"
	"github.com/artflow/artflow/internal/events/bus"
	ws "github.com/artflow/artflow/pkg/websocket"
)

// EventBroadcaster forwards domain events from the event bus to the
// WebSocket clients of the user each event belongs to.
type EventBroadcaster struct {
	hub      *Hub
	eventBus bus.EventBus
	logger   *logger.Logger
	subs     []bus.Subscription
}

// NewEventBroadcaster creates a broadcaster wired to the given hub and bus.
func NewEventBroadcaster(hub *Hub, eventBus bus.EventBus, log *logger.Logger) *EventBroadcaster {
	return &EventBroadcaster{
		hub:      hub,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "ws_broadcaster")),
	}
}

// Start subscribes to all domain event subjects. Call Stop to unsubscribe.
func (b *EventBroadcaster) Start() error {
	subjects := []string{
		events.AllPromptEvents,
		events.AllSettingsEvents,
		events.AllProjectEvents,
		events.AllContentIdeaEvents,
	}

	for _, subject := range subjects {
		sub, err := b.eventBus.Subscribe(subject, b.handleEvent)
		if err != nil {
			b.Stop()
			return err
		}
		b.subs = append(b.subs, sub)
	}

	b.logger.Info("Event broadcaster started", zap.Int("subjects", len(subjects)))
	return nil
}

// Stop removes all event subscriptions.
func (b *EventBroadcaster) Stop() {
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.logger.Warn("Failed to unsubscribe", zap.Error(err))
		}
	}
	b.subs = nil
}

func (b *EventBroadcaster) handleEvent(ctx context.Context, event *bus.Event) error {
	userID, _ := event.Data["user_id"].(string)
	if userID == "" {
		b.logger.Debug("Event without user id, skipping",
			zap.String("type", event.Type))
		return nil
	}

	msg, err := ws.NewNotification(event.Type, event.Data)
	if err != nil {
		b.logger.Error("Failed to build notification",
			zap.String("type", event.Type),
			zap.Error(err))
		return err
	}

	b.hub.BroadcastToUser(userID, msg)
	return nil
}

package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/events"
	"github.com/artflow/artflow/internal/events/bus"
	ws "github.com/artflow/artflow/pkg/websocket"
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

func newHubClient(hub *Hub, id, userID string, log *logger.Logger) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		hub:    hub,
		send:   make(chan []byte, 8),
		logger: log,
	}
}

func receiveMessage(t *testing.T, c *Client) *ws.Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg ws.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for message")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("Unexpected message: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastToUser(t *testing.T) {
	log := newTestLogger(t)
	hub := NewHub(ws.NewDispatcher(), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice1 := newHubClient(hub, "c1", "alice", log)
	alice2 := newHubClient(hub, "c2", "alice", log)
	bob := newHubClient(hub, "c3", "bob", log)
	hub.Register(alice1)
	hub.Register(alice2)
	hub.Register(bob)

	// Registration goes through the hub's channel; wait for it to land.
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 3
	}, time.Second, 5*time.Millisecond)

	msg, err := ws.NewNotification("prompt.created", map[string]interface{}{"user_id": "alice"})
	require.NoError(t, err)
	hub.BroadcastToUser("alice", msg)

	got := receiveMessage(t, alice1)
	assert.Equal(t, "prompt.created", got.Action)
	assert.Equal(t, ws.MessageTypeNotification, got.Type)
	receiveMessage(t, alice2)
	assertNoMessage(t, bob)

	hub.Unregister(alice1)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	hub.BroadcastToUser("alice", msg)
	receiveMessage(t, alice2)
}

func TestHubBroadcastDuringUnregister(t *testing.T) {
	log := newTestLogger(t)
	hub := NewHub(ws.NewDispatcher(), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	msg, err := ws.NewNotification("prompt.updated", map[string]interface{}{"user_id": "alice"})
	require.NoError(t, err)

	// Churn clients for one user while broadcasting to the same user so
	// map reads and removals overlap.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c := newHubClient(hub, "c1", "alice", log)
			hub.Register(c)
			hub.Unregister(c)
		}
	}()
	for i := 0; i < 200; i++ {
		hub.BroadcastToUser("alice", msg)
	}
	<-done

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	survivor := newHubClient(hub, "c2", "alice", log)
	hub.Register(survivor)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	hub.BroadcastToUser("alice", msg)
	got := receiveMessage(t, survivor)
	assert.Equal(t, "prompt.updated", got.Action)
}

func TestEventBroadcasterForwardsByUser(t *testing.T) {
	log := newTestLogger(t)
	hub := NewHub(ws.NewDispatcher(), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := newHubClient(hub, "c1", "alice", log)
	bob := newHubClient(hub, "c2", "bob", log)
	hub.Register(alice)
	hub.Register(bob)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	eventBus := bus.NewMemoryEventBus(log)
	defer eventBus.Close()

	broadcaster := NewEventBroadcaster(hub, eventBus, log)
	require.NoError(t, broadcaster.Start())
	defer broadcaster.Stop()

	err := eventBus.Publish(ctx, events.PromptCreated, bus.NewEvent(
		events.PromptCreated, "prompt-service", map[string]interface{}{
			"user_id": "alice",
			"prompt":  map[string]interface{}{"id": "p-1", "title": "New"},
		}))
	require.NoError(t, err)

	got := receiveMessage(t, alice)
	assert.Equal(t, events.PromptCreated, got.Action)
	assertNoMessage(t, bob)

	// Events without a user id are dropped, not broadcast.
	err = eventBus.Publish(ctx, events.SettingsUpdated, bus.NewEvent(
		events.SettingsUpdated, "user-service", map[string]interface{}{"dark_mode": true}))
	require.NoError(t, err)
	assertNoMessage(t, alice)
	assertNoMessage(t, bob)
}

package bus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/artflow/artflow/internal/common/logger"
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

func TestMemoryEventBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryEventBus(newTestLogger(t))
	defer bus.Close()

	ctx := context.Background()
	received := make(chan *Event, 1)

	sub, err := bus.Subscribe("prompt.created", func(ctx context.Context, event *Event) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	event := NewEvent("prompt.created", "prompt-service", map[string]interface{}{"user_id": "u1"})
	if err := bus.Publish(ctx, "prompt.created", event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case e := <-received:
		if e.ID != event.ID {
			t.Errorf("Expected event ID %s, got %s", event.ID, e.ID)
		}
		if e.Data["user_id"] != "u1" {
			t.Errorf("Expected user_id u1, got %v", e.Data["user_id"])
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
	}
}

func TestMemoryEventBus_WildcardSubscription(t *testing.T) {
	bus := NewMemoryEventBus(newTestLogger(t))
	defer bus.Close()

	ctx := context.Background()
	var count int32

	sub, err := bus.Subscribe("prompt.*", func(ctx context.Context, event *Event) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	for _, subject := range []string{"prompt.created", "prompt.updated", "prompt.deleted"} {
		if err := bus.Publish(ctx, subject, NewEvent(subject, "prompt-service", nil)); err != nil {
			t.Fatalf("Publish %s failed: %v", subject, err)
		}
	}
	// Subjects outside the pattern must not match
	if err := bus.Publish(ctx, "settings.updated", NewEvent("settings.updated", "user-service", nil)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt32(&count); got != 3 {
		t.Errorf("Expected 3 deliveries, got %d", got)
	}
}

func TestMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryEventBus(newTestLogger(t))
	defer bus.Close()

	ctx := context.Background()
	var count int32

	sub, err := bus.Subscribe("settings.updated", func(ctx context.Context, event *Event) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "settings.updated", NewEvent("settings.updated", "user-service", nil)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := sub.Unsubscribe(); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if sub.IsValid() {
		t.Error("Expected subscription to be invalid after unsubscribe")
	}

	if err := bus.Publish(ctx, "settings.updated", NewEvent("settings.updated", "user-service", nil)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("Expected 1 delivery, got %d", got)
	}
}

func TestMemoryEventBus_QueueSubscribe(t *testing.T) {
	bus := NewMemoryEventBus(newTestLogger(t))
	defer bus.Close()

	ctx := context.Background()
	var first, second int32

	sub1, err := bus.QueueSubscribe("project.created", "workers", func(ctx context.Context, event *Event) error {
		atomic.AddInt32(&first, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("QueueSubscribe failed: %v", err)
	}
	defer func() { _ = sub1.Unsubscribe() }()

	sub2, err := bus.QueueSubscribe("project.created", "workers", func(ctx context.Context, event *Event) error {
		atomic.AddInt32(&second, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("QueueSubscribe failed: %v", err)
	}
	defer func() { _ = sub2.Unsubscribe() }()

	for i := 0; i < 4; i++ {
		if err := bus.Publish(ctx, "project.created", NewEvent("project.created", "project-service", nil)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	time.Sleep(100 * time.Millisecond)

	total := atomic.LoadInt32(&first) + atomic.LoadInt32(&second)
	if total != 4 {
		t.Errorf("Expected 4 total deliveries across the queue group, got %d", total)
	}
	if atomic.LoadInt32(&first) == 0 || atomic.LoadInt32(&second) == 0 {
		t.Errorf("Expected round-robin across both subscribers, got %d/%d", first, second)
	}
}

func TestMemoryEventBus_Request(t *testing.T) {
	bus := NewMemoryEventBus(newTestLogger(t))
	defer bus.Close()

	ctx := context.Background()

	sub, err := bus.Subscribe("content_idea.created", func(ctx context.Context, event *Event) error {
		reply, _ := event.Data["_reply"].(string)
		if reply == "" {
			t.Error("Expected _reply subject in request data")
			return nil
		}
		return bus.Publish(ctx, reply, NewEvent("content_idea.ack", "content-service", nil))
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	resp, err := bus.Request(ctx, "content_idea.created", NewEvent("content_idea.created", "content-service", nil), time.Second)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.Type != "content_idea.ack" {
		t.Errorf("Expected ack response, got %s", resp.Type)
	}
}

func TestMemoryEventBus_Close(t *testing.T) {
	bus := NewMemoryEventBus(newTestLogger(t))

	if !bus.IsConnected() {
		t.Fatal("Expected bus to be connected")
	}

	bus.Close()

	if bus.IsConnected() {
		t.Error("Expected bus to be disconnected after close")
	}
	if err := bus.Publish(context.Background(), "prompt.created", NewEvent("prompt.created", "prompt-service", nil)); err == nil {
		t.Error("Expected publish on closed bus to fail")
	}
}

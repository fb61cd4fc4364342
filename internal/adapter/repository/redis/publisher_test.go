package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gofoodhq/settlement/internal/domain"
)

func TestEventPublisherPublish(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	sub := client.Subscribe(ctx, DefaultEventChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	publisher := NewEventPublisher(client)
	event := &domain.Event{
		Type:       domain.EventTypeTopupUnmatched,
		OccurredAt: time.Now().UTC(),
		Payload:    map[string]any{"payer_name": "john doe"},
	}
	if err := publisher.Publish(ctx, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got domain.Event
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("decoding message: %v", err)
		}
		if got.Type != domain.EventTypeTopupUnmatched {
			t.Fatalf("event type = %s", got.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gofoodhq/settlement/internal/domain"
)

// DefaultEventChannel is where settlement and payout notifications land for
// the operator dashboard and SSE fan-out.
const DefaultEventChannel = "payments"

// EventPublisher implements usecase.EventPublisher over redis pub/sub.
type EventPublisher struct {
	client  *redis.Client
	channel string
}

// NewEventPublisher creates a new EventPublisher on the default channel.
func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{
		client:  client,
		channel: DefaultEventChannel,
	}
}

// Publish pushes one event to the channel. Delivery is fire-and-forget:
// subscribers that are offline miss the message, which is why unmatched
// payments are also durable in the ledger.
func (p *EventPublisher) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	return nil
}

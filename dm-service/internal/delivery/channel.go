//go:generate go run go.uber.org/mock/mockgen -source=channel.go -destination=../mocks/mock_channel.go -package=mocks
package delivery

import (
	"context"
	"fmt"

	"github.com/choosenname/OneTeam/pkg/pubsub"
)

// Channel delivers a payload to whoever is subscribed to routingKey at the
// moment of the call. There is no buffering, replay or acknowledgement.
type Channel interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// BusChannel publishes onto the message bus so every instance's relay can
// hand the payload to its local subscribers.
type BusChannel struct {
	publisher pubsub.Publisher
	eventType string
}

func NewBusChannel(publisher pubsub.Publisher) *BusChannel {
	return &BusChannel{
		publisher: publisher,
		eventType: pubsub.EventMessageCreated,
	}
}

func (b *BusChannel) Publish(ctx context.Context, routingKey string, payload any) error {
	event, err := pubsub.NewEvent(b.eventType, routingKey, payload)
	if err != nil {
		return fmt.Errorf("build event: %w", err)
	}
	return b.publisher.Publish(ctx, routingKey, event)
}

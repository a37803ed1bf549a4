package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/choosenname/OneTeam/pkg/log"
	"github.com/choosenname/OneTeam/pkg/pubsub"
)

var ErrSubscriptionClosed = errors.New("bus subscription closed")

// Relay forwards conversation events from the bus into the local hub.
type Relay struct {
	subscriber pubsub.Subscriber
	local      Channel
	pattern    string
}

func NewRelay(subscriber pubsub.Subscriber, local Channel) *Relay {
	return &Relay{
		subscriber: subscriber,
		local:      local,
		pattern:    pubsub.PatternConversationMessages,
	}
}

// Run blocks until ctx is cancelled or the bus subscription ends.
func (r *Relay) Run(ctx context.Context) error {
	l := log.Ctx(ctx)

	events, err := r.subscriber.SubscribePattern(ctx, r.pattern)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", r.pattern, err)
	}
	defer func() {
		unsubCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.subscriber.Unsubscribe(unsubCtx, r.pattern); err != nil {
			l.Warn().Err(err).Msg("relay unsubscribe failed")
		}
	}()

	l.Info().Str(log.FieldRoutingKey, r.pattern).Msg("relay subscribed")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrSubscriptionClosed
			}
			r.forward(ctx, event)
		}
	}
}

func (r *Relay) forward(ctx context.Context, event *pubsub.Event) {
	l := log.Ctx(ctx)

	if _, ok := pubsub.ParseConversationMessagesChannel(event.Key); !ok {
		l.Warn().Str(log.FieldRoutingKey, event.Key).Msg("relay: event without conversation key")
		return
	}
	if event.Type != pubsub.EventMessageCreated {
		l.Debug().Str("event_type", event.Type).Msg("relay: ignoring event type")
		return
	}

	if err := r.local.Publish(ctx, event.Key, event.Payload); err != nil {
		l.Warn().Err(err).Str(log.FieldRoutingKey, event.Key).Msg("relay: local publish failed")
	}
}

package pubsub

import "context"

// Publisher sends an event to every subscriber of channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, event *Event) error
}

// Subscriber delivers events until the subscription is removed. Returned
// channels are closed on Unsubscribe or Close.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan *Event, error)
	SubscribePattern(ctx context.Context, pattern string) (<-chan *Event, error)
	Unsubscribe(ctx context.Context, channel string) error
}

type PubSub interface {
	Publisher
	Subscriber
	Close() error
}

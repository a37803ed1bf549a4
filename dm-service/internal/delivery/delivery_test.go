package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/choosenname/OneTeam/dm-service/internal/mocks"
	"github.com/choosenname/OneTeam/pkg/pubsub"
)

func TestBusChannel_Publish(t *testing.T) {
	t.Run("should wrap the payload in a message.created event on the routing key", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		publisher := mocks.NewMockPublisher(ctrl)
		channel := NewBusChannel(publisher)

		publisher.EXPECT().Publish(gomock.Any(), "chat:c1:messages", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, event *pubsub.Event) error {
				req.Equal(pubsub.EventMessageCreated, event.Type)
				req.Equal("chat:c1:messages", event.Key)
				req.JSONEq(`{"id":"m1","content":"hi"}`, string(event.Payload))
				req.False(event.Timestamp.IsZero())
				return nil
			}).Times(1)

		err := channel.Publish(context.Background(), "chat:c1:messages", map[string]string{"id": "m1", "content": "hi"})
		req.NoError(err)
	})

	t.Run("should return bus failures to the caller", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		publisher := mocks.NewMockPublisher(ctrl)
		channel := NewBusChannel(publisher)

		busErr := errors.New("broker unavailable")
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(busErr).Times(1)

		req.ErrorIs(channel.Publish(context.Background(), "chat:c1:messages", "x"), busErr)
	})

	t.Run("should refuse payloads that cannot be encoded", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		publisher := mocks.NewMockPublisher(ctrl)
		channel := NewBusChannel(publisher)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req.Error(channel.Publish(context.Background(), "chat:c1:messages", make(chan int)))
	})
}

func TestRelay_Run(t *testing.T) {
	t.Run("should republish bus events into the local channel under their own key", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		subscriber := mocks.NewMockSubscriber(ctrl)
		local := mocks.NewMockChannel(ctrl)
		relay := NewRelay(subscriber, local)

		events := make(chan *pubsub.Event, 4)
		forwarded := make(chan struct{})

		// Given
		subscriber.EXPECT().SubscribePattern(gomock.Any(), pubsub.PatternConversationMessages).
			Return((<-chan *pubsub.Event)(events), nil).Times(1)
		subscriber.EXPECT().Unsubscribe(gomock.Any(), pubsub.PatternConversationMessages).Return(nil).Times(1)
		local.EXPECT().Publish(gomock.Any(), "chat:c2:messages", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, payload any) error {
				raw, ok := payload.(json.RawMessage)
				req.True(ok)
				req.JSONEq(`{"id":"m2"}`, string(raw))
				close(forwarded)
				return nil
			}).Times(1)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- relay.Run(ctx) }()

		// When
		events <- &pubsub.Event{Type: "presence.update", Key: "chat:c1:messages", Payload: json.RawMessage(`{}`)}
		events <- &pubsub.Event{Type: pubsub.EventMessageCreated, Key: "room:c1", Payload: json.RawMessage(`{}`)}
		events <- &pubsub.Event{Type: pubsub.EventMessageCreated, Key: "chat:c2:messages", Payload: json.RawMessage(`{"id":"m2"}`)}

		// Then
		select {
		case <-forwarded:
		case <-time.After(time.Second):
			req.FailNow("event was not forwarded")
		}

		cancel()
		select {
		case err := <-done:
			req.NoError(err)
		case <-time.After(time.Second):
			req.FailNow("relay did not stop")
		}
	})

	t.Run("should report a closed subscription", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		subscriber := mocks.NewMockSubscriber(ctrl)
		relay := NewRelay(subscriber, mocks.NewMockChannel(ctrl))

		events := make(chan *pubsub.Event)
		close(events)
		subscriber.EXPECT().SubscribePattern(gomock.Any(), gomock.Any()).Return((<-chan *pubsub.Event)(events), nil).Times(1)
		subscriber.EXPECT().Unsubscribe(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		req.ErrorIs(relay.Run(context.Background()), ErrSubscriptionClosed)
	})

	t.Run("should fail when the bus refuses the subscription", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		subscriber := mocks.NewMockSubscriber(ctrl)
		relay := NewRelay(subscriber, mocks.NewMockChannel(ctrl))

		busErr := errors.New("no brokers")
		subscriber.EXPECT().SubscribePattern(gomock.Any(), gomock.Any()).Return(nil, busErr).Times(1)
		subscriber.EXPECT().Unsubscribe(gomock.Any(), gomock.Any()).Times(0)

		req.ErrorIs(relay.Run(context.Background()), busErr)
	})

	t.Run("should keep running when local delivery fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		subscriber := mocks.NewMockSubscriber(ctrl)
		local := mocks.NewMockChannel(ctrl)
		relay := NewRelay(subscriber, local)

		events := make(chan *pubsub.Event, 2)
		second := make(chan struct{})

		subscriber.EXPECT().SubscribePattern(gomock.Any(), gomock.Any()).Return((<-chan *pubsub.Event)(events), nil).Times(1)
		subscriber.EXPECT().Unsubscribe(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		gomock.InOrder(
			local.EXPECT().Publish(gomock.Any(), "chat:a:messages", gomock.Any()).Return(errors.New("boom")).Times(1),
			local.EXPECT().Publish(gomock.Any(), "chat:b:messages", gomock.Any()).
				DoAndReturn(func(context.Context, string, any) error {
					close(second)
					return nil
				}).Times(1),
		)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- relay.Run(ctx) }()

		events <- &pubsub.Event{Type: pubsub.EventMessageCreated, Key: "chat:a:messages", Payload: json.RawMessage(`{}`)}
		events <- &pubsub.Event{Type: pubsub.EventMessageCreated, Key: "chat:b:messages", Payload: json.RawMessage(`{}`)}

		select {
		case <-second:
		case <-time.After(time.Second):
			req.FailNow("second event was not forwarded")
		}
		cancel()
		req.NoError(<-done)
	})
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/choosenname/OneTeam/dm-service/internal/cache"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/dm-service/internal/mocks"
	"github.com/choosenname/OneTeam/dm-service/internal/repository"
)

func testConversation() *domain.Conversation {
	return &domain.Conversation{
		ID:          "c1",
		MemberOneID: "m1",
		MemberTwoID: "m2",
		MemberOne:   &domain.Member{ID: "m1", UserID: "alice", ConversationID: "c1", User: &domain.User{ID: "alice", Name: "Alice"}},
		MemberTwo:   &domain.Member{ID: "m2", UserID: "bob", ConversationID: "c1", User: &domain.User{ID: "bob", Name: "Bob"}},
	}
}

func TestDirectMessageService_SendDirectMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist under the caller's membership and publish on the conversation key", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		channel := mocks.NewMockChannel(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, channel, 0)

		conv := testConversation()
		created := &domain.DirectMessage{ID: "01HX", Content: "hi", MemberID: "m2", ConversationID: "c1", Member: conv.MemberTwo}

		// Given
		gomock.InOrder(
			conversations.EXPECT().FindForMember(gomock.Any(), "c1", "bob").Return(conv, nil).Times(1),
			conversations.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, msg *domain.DirectMessage) (*domain.DirectMessage, error) {
					req.Equal("m2", msg.MemberID)
					req.Equal("c1", msg.ConversationID)
					req.Equal("hi", msg.Content)
					return created, nil
				}).Times(1),
			channel.EXPECT().Publish(gomock.Any(), "chat:c1:messages", created).Return(nil).Times(1),
		)

		// When
		msg, err := svc.SendDirectMessage(ctx, "bob", "c1", &domain.SendMessageRequest{Content: "hi"})

		// Then
		req.NoError(err)
		req.Same(created, msg)
	})

	t.Run("should validate before touching the store", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		channel := mocks.NewMockChannel(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, channel, 0)

		_, err := svc.SendDirectMessage(ctx, "", "c1", &domain.SendMessageRequest{Content: "hi"})
		req.ErrorIs(err, ErrUnauthorized)

		_, err = svc.SendDirectMessage(ctx, "bob", "", &domain.SendMessageRequest{Content: "hi"})
		req.ErrorIs(err, ErrMissingConversationID)

		_, err = svc.SendDirectMessage(ctx, "bob", "c1", &domain.SendMessageRequest{})
		req.ErrorIs(err, ErrMissingContent)

		_, err = svc.SendDirectMessage(ctx, "bob", "c1", nil)
		req.ErrorIs(err, ErrMissingContent)
	})

	t.Run("should not create or publish for non-members", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		channel := mocks.NewMockChannel(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, channel, 0)

		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "mallory").Return(nil, repository.ErrNotFound).Times(1)
		conversations.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Times(0)
		channel.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendDirectMessage(ctx, "mallory", "c1", &domain.SendMessageRequest{Content: "hi"})
		req.ErrorIs(err, ErrConversationNotFound)
	})

	t.Run("should report a missing membership in the loaded conversation", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, nil, 0)

		conv := testConversation()
		conv.MemberTwo = nil
		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "bob").Return(conv, nil).Times(1)
		conversations.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendDirectMessage(ctx, "bob", "c1", &domain.SendMessageRequest{Content: "hi"})
		req.ErrorIs(err, ErrMemberNotFound)
	})

	t.Run("should not publish when persisting fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		channel := mocks.NewMockChannel(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, channel, 0)

		dbErr := errors.New("disk full")
		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "bob").Return(testConversation(), nil).Times(1)
		conversations.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(nil, dbErr).Times(1)
		channel.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendDirectMessage(ctx, "bob", "c1", &domain.SendMessageRequest{Content: "hi"})
		req.ErrorIs(err, dbErr)
		req.NotErrorIs(err, ErrConversationNotFound)
	})

	t.Run("should succeed when publishing fails after persisting", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		channel := mocks.NewMockChannel(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, channel, 0)

		created := &domain.DirectMessage{ID: "01HX", Content: "hi", ConversationID: "c1"}
		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "bob").Return(testConversation(), nil).Times(1)
		conversations.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(created, nil).Times(1)
		channel.EXPECT().Publish(gomock.Any(), "chat:c1:messages", created).Return(errors.New("bus down")).Times(1)

		msg, err := svc.SendDirectMessage(ctx, "bob", "c1", &domain.SendMessageRequest{Content: "hi"})
		req.NoError(err)
		req.Same(created, msg)
	})

	t.Run("should skip publishing without a channel", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, nil, 0)

		fileURL := "/files/a.pdf"
		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "alice").Return(testConversation(), nil).Times(1)
		conversations.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg *domain.DirectMessage) (*domain.DirectMessage, error) {
				req.Equal(&fileURL, msg.FileURL)
				msg.ID = "01HY"
				return msg, nil
			}).Times(1)

		msg, err := svc.SendDirectMessage(ctx, "alice", "c1", &domain.SendMessageRequest{Content: "see file", FileURL: &fileURL})
		req.NoError(err)
		req.Equal("m1", msg.MemberID)
	})
}

func TestDirectMessageService_CachedLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("should serve membership from the cache", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		convCache := mocks.NewMockConversationCache(ctrl)
		svc := NewDirectMessageService(conversations, nil, convCache, time.Minute, nil, 0)

		convCache.EXPECT().Get(gomock.Any(), "c1").Return(testConversation(), nil).Times(2)
		conversations.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)
		conversations.EXPECT().FindForMember(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req.NoError(svc.AuthorizeSubscription(ctx, "alice", "chat:c1:messages"))
		req.ErrorIs(svc.AuthorizeSubscription(ctx, "mallory", "chat:c1:messages"), ErrConversationNotFound)
	})

	t.Run("should load from the store on a miss and fill the cache", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		convCache := mocks.NewMockConversationCache(ctrl)
		svc := NewDirectMessageService(conversations, nil, convCache, time.Minute, nil, 0)

		conv := testConversation()
		stored := make(chan struct{})

		convCache.EXPECT().Get(gomock.Any(), "c1").Return(nil, cache.ErrCacheMiss).Times(1)
		conversations.EXPECT().GetByID(gomock.Any(), "c1").Return(conv, nil).Times(1)
		convCache.EXPECT().Set(gomock.Any(), conv, time.Minute).
			DoAndReturn(func(context.Context, *domain.Conversation, time.Duration) error {
				close(stored)
				return nil
			}).Times(1)

		req.NoError(svc.AuthorizeSubscription(ctx, "bob", "chat:c1:messages"))

		select {
		case <-stored:
		case <-time.After(time.Second):
			req.Fail("cache was not filled")
		}
	})

	t.Run("should load the conversation even when the caller that started the load gives up", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		convCache := mocks.NewMockConversationCache(ctrl)
		svc := NewDirectMessageService(conversations, nil, convCache, time.Minute, nil, 0)

		// Given
		callerCtx, cancel := context.WithCancel(ctx)
		cancel()

		convCache.EXPECT().Get(gomock.Any(), "c1").Return(nil, cache.ErrCacheMiss).Times(1)
		conversations.EXPECT().GetByID(gomock.Any(), "c1").
			DoAndReturn(func(loadCtx context.Context, _ string) (*domain.Conversation, error) {
				if err := loadCtx.Err(); err != nil {
					return nil, err
				}
				return testConversation(), nil
			}).Times(1)
		stored := make(chan struct{})
		convCache.EXPECT().Set(gomock.Any(), gomock.Any(), time.Minute).
			DoAndReturn(func(context.Context, *domain.Conversation, time.Duration) error {
				close(stored)
				return nil
			}).Times(1)

		// When
		err := svc.AuthorizeSubscription(callerCtx, "bob", "chat:c1:messages")

		// Then
		req.NoError(err)
		select {
		case <-stored:
		case <-time.After(time.Second):
			req.Fail("cache was not filled")
		}
	})

	t.Run("should not cache absent conversations", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		convCache := mocks.NewMockConversationCache(ctrl)
		svc := NewDirectMessageService(conversations, nil, convCache, time.Minute, nil, 0)

		convCache.EXPECT().Get(gomock.Any(), "gone").Return(nil, errors.New("redis timeout")).Times(1)
		conversations.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, repository.ErrNotFound).Times(1)
		convCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := svc.AuthorizeSubscription(ctx, "bob", "chat:gone:messages")
		req.ErrorIs(err, ErrConversationNotFound)
	})
}

func TestDirectMessageService_AuthorizeSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("should refuse keys that are not conversation keys", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, nil, 0)
		conversations.EXPECT().FindForMember(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		for _, key := range []string{"", "chat:*:messages", "chat::messages", "room:c1:messages", "chat:c1"} {
			req.ErrorIs(svc.AuthorizeSubscription(ctx, "bob", key), ErrInvalidRoutingKey, key)
		}
		req.ErrorIs(svc.AuthorizeSubscription(ctx, "", "chat:c1:messages"), ErrUnauthorized)
	})

	t.Run("should wrap store failures", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, nil, 0)

		dbErr := errors.New("connection reset")
		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "bob").Return(nil, dbErr).Times(1)

		err := svc.AuthorizeSubscription(ctx, "bob", "chat:c1:messages")
		req.ErrorIs(err, dbErr)
		req.NotErrorIs(err, ErrConversationNotFound)
	})
}

func TestDirectMessageService_ListDirectMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("should hand out a cursor when the page is full", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, nil, 2)

		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "bob").Return(testConversation(), nil).Times(1)
		conversations.EXPECT().ListMessages(gomock.Any(), "c1", "", 2).
			Return([]*domain.DirectMessage{{ID: "03"}, {ID: "02"}}, nil).Times(1)

		page, err := svc.ListDirectMessages(ctx, "bob", "c1", "")
		req.NoError(err)
		req.Len(page.Items, 2)
		req.NotNil(page.NextCursor)
		req.Equal("02", *page.NextCursor)
	})

	t.Run("should end paging on a short page", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, nil, 0)

		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "bob").Return(testConversation(), nil).Times(1)
		conversations.EXPECT().ListMessages(gomock.Any(), "c1", "02", defaultPageSize).Return(nil, nil).Times(1)

		page, err := svc.ListDirectMessages(ctx, "bob", "c1", "02")
		req.NoError(err)
		req.NotNil(page.Items)
		req.Empty(page.Items)
		req.Nil(page.NextCursor)
	})

	t.Run("should hide history from non-members", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		svc := NewDirectMessageService(conversations, nil, nil, 0, nil, 0)

		conversations.EXPECT().FindForMember(gomock.Any(), "c1", "mallory").Return(nil, repository.ErrNotFound).Times(1)
		conversations.EXPECT().ListMessages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.ListDirectMessages(ctx, "mallory", "c1", "")
		req.ErrorIs(err, ErrConversationNotFound)
	})
}

func TestDirectMessageService_GetOrCreateConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("should open the conversation with another user", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		users := mocks.NewMockUserRepository(ctrl)
		svc := NewDirectMessageService(conversations, users, nil, 0, nil, 0)

		users.EXPECT().GetByID(gomock.Any(), "bob").Return(&domain.User{ID: "bob"}, nil).Times(1)
		conversations.EXPECT().Create(gomock.Any(), "alice", "bob").Return(testConversation(), nil).Times(1)

		conv, err := svc.GetOrCreateConversation(ctx, "alice", "bob")
		req.NoError(err)
		req.Equal("c1", conv.ID)
	})

	t.Run("should refuse a conversation with yourself", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		users := mocks.NewMockUserRepository(ctrl)
		svc := NewDirectMessageService(mocks.NewMockConversationRepository(ctrl), users, nil, 0, nil, 0)
		users.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.GetOrCreateConversation(ctx, "alice", "alice")
		req.ErrorIs(err, ErrSameUser)
	})

	t.Run("should report unknown users", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)

		conversations := mocks.NewMockConversationRepository(ctrl)
		users := mocks.NewMockUserRepository(ctrl)
		svc := NewDirectMessageService(conversations, users, nil, 0, nil, 0)

		users.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, repository.ErrNotFound).Times(1)
		conversations.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.GetOrCreateConversation(ctx, "alice", "ghost")
		req.ErrorIs(err, ErrUserNotFound)
	})
}

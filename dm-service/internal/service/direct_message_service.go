package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/choosenname/OneTeam/dm-service/internal/audit"
	"github.com/choosenname/OneTeam/dm-service/internal/cache"
	"github.com/choosenname/OneTeam/dm-service/internal/delivery"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/dm-service/internal/repository"
	"github.com/choosenname/OneTeam/pkg/log"
	"github.com/choosenname/OneTeam/pkg/pubsub"
)

// LogTagSend prefixes every unexpected failure on the message ingest path.
const LogTagSend = "[DIRECT_MESSAGES_POST]"

const defaultPageSize = 10

const conversationLoadTimeout = 5 * time.Second

type directMessageServiceImpl struct {
	conversations repository.ConversationRepository
	users         repository.UserRepository
	cache         cache.ConversationCache
	cacheTTL      time.Duration
	channel       delivery.Channel
	pageSize      int
	sf            singleflight.Group
}

// NewDirectMessageService creates the direct-message service. convCache and
// channel may be nil: without a cache every lookup hits the store, without a
// channel publishing is skipped.
func NewDirectMessageService(
	conversations repository.ConversationRepository,
	users repository.UserRepository,
	convCache cache.ConversationCache,
	cacheTTL time.Duration,
	channel delivery.Channel,
	pageSize int,
) DirectMessageService {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &directMessageServiceImpl{
		conversations: conversations,
		users:         users,
		cache:         convCache,
		cacheTTL:      cacheTTL,
		channel:       channel,
		pageSize:      pageSize,
	}
}

func (s *directMessageServiceImpl) SendDirectMessage(ctx context.Context, userID, conversationID string, req *domain.SendMessageRequest) (*domain.DirectMessage, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if conversationID == "" {
		return nil, ErrMissingConversationID
	}
	if req == nil || req.Content == "" {
		return nil, ErrMissingContent
	}

	conv, err := s.conversationFor(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	member := conv.MemberFor(userID)
	if member == nil {
		return nil, ErrMemberNotFound
	}

	msg, err := s.conversations.CreateMessage(ctx, &domain.DirectMessage{
		Content:        req.Content,
		FileURL:        req.FileURL,
		MemberID:       member.ID,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.publish(ctx, msg)

	audit.LogConversation(ctx, audit.ActionSendMessage, userID, conversationID, "direct message created")
	return msg, nil
}

// publish hands the message to the delivery channel once. Failures are
// logged; the message is already stored.
func (s *directMessageServiceImpl) publish(ctx context.Context, msg *domain.DirectMessage) {
	if s.channel == nil {
		return
	}

	key := pubsub.ConversationMessagesChannel(msg.ConversationID)
	if err := s.channel.Publish(ctx, key, msg); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).
			Str(log.FieldTag, LogTagSend).
			Str(log.FieldRoutingKey, key).
			Str(log.FieldMessageID, msg.ID).
			Msg("failed to publish direct message")
	}
}

func (s *directMessageServiceImpl) ListDirectMessages(ctx context.Context, userID, conversationID, cursor string) (*domain.MessagePage, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if conversationID == "" {
		return nil, ErrMissingConversationID
	}

	if _, err := s.conversationFor(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.conversations.ListMessages(ctx, conversationID, cursor, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	page := &domain.MessagePage{Items: messages}
	if page.Items == nil {
		page.Items = []*domain.DirectMessage{}
	}
	if len(messages) == s.pageSize {
		next := messages[len(messages)-1].ID
		page.NextCursor = &next
	}
	return page, nil
}

func (s *directMessageServiceImpl) GetOrCreateConversation(ctx context.Context, userID, otherUserID string) (*domain.Conversation, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if otherUserID == userID {
		return nil, ErrSameUser
	}

	if _, err := s.users.GetByID(ctx, otherUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	conv, err := s.conversations.Create(ctx, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("get or create conversation: %w", err)
	}

	audit.LogConversation(ctx, audit.ActionCreateConversation, userID, conv.ID, "conversation opened")
	return conv, nil
}

func (s *directMessageServiceImpl) AuthorizeSubscription(ctx context.Context, userID, routingKey string) error {
	if userID == "" {
		return ErrUnauthorized
	}

	conversationID, ok := pubsub.ParseConversationMessagesChannel(routingKey)
	if !ok {
		return ErrInvalidRoutingKey
	}

	_, err := s.conversationFor(ctx, conversationID, userID)
	return err
}

// conversationFor loads the conversation only if userID is a member. A
// missing conversation and a non-member caller are indistinguishable.
func (s *directMessageServiceImpl) conversationFor(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	if s.cache == nil {
		conv, err := s.conversations.FindForMember(ctx, conversationID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrConversationNotFound
			}
			return nil, fmt.Errorf("find conversation: %w", err)
		}
		return conv, nil
	}

	conv, err := s.cachedConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if !conv.HasMember(userID) {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

func (s *directMessageServiceImpl) cachedConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	l := log.Ctx(ctx)

	conv, err := s.cache.Get(ctx, conversationID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l.Warn().Err(err).Str(log.FieldConversationID, conversationID).Msg("cache get error, falling back to db")
	}

	// Use singleflight to collapse concurrent loads of the same conversation.
	// The shared load must outlive any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	result, err, _ := s.sf.Do(conversationID, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(loadCtx, conversationLoadTimeout)
		defer cancel()
		conv, err := s.conversations.GetByID(loadCtx, conversationID)
		if err != nil {
			return nil, err
		}

		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.cache.Set(cacheCtx, conv, s.cacheTTL); err != nil {
				l := log.L()
				l.Warn().Err(err).Msg("cache set error")
			}
		}()

		return conv, nil
	})
	if err != nil {
		return nil, err
	}

	conv, ok := result.(*domain.Conversation)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return conv, nil
}

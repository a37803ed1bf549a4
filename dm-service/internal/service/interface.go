//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../mocks/mock_service.go -package=mocks
package service

import (
	"context"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
)

// DirectMessageService defines the direct-message business logic.
type DirectMessageService interface {
	// SendDirectMessage persists a message from userID into the conversation
	// and publishes it to the conversation's subscribers.
	SendDirectMessage(ctx context.Context, userID, conversationID string, req *domain.SendMessageRequest) (*domain.DirectMessage, error)
	ListDirectMessages(ctx context.Context, userID, conversationID, cursor string) (*domain.MessagePage, error)
	GetOrCreateConversation(ctx context.Context, userID, otherUserID string) (*domain.Conversation, error)
	// AuthorizeSubscription checks that userID may receive events for routingKey.
	AuthorizeSubscription(ctx context.Context, userID, routingKey string) error
}

// ProfileService manages the caller's own profile.
type ProfileService interface {
	EnsureProfile(ctx context.Context, user *domain.User) (*domain.User, error)
}

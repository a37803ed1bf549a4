//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../mocks/mock_repository.go -package=mocks
package repository

import (
	"context"
	"errors"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
)

var ErrNotFound = errors.New("record not found")

// ConversationRepository stores conversations, their memberships and messages.
type ConversationRepository interface {
	// FindForMember returns the conversation only when userID is one of its
	// members. Absent and not-a-member both yield ErrNotFound.
	FindForMember(ctx context.Context, conversationID, userID string) (*domain.Conversation, error)
	GetByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	FindBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// Create returns the existing conversation between the two users or
	// creates it together with both memberships.
	Create(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	CreateMessage(ctx context.Context, msg *domain.DirectMessage) (*domain.DirectMessage, error)
	// ListMessages returns up to limit messages older than cursor, newest first.
	ListMessages(ctx context.Context, conversationID, cursor string, limit int) ([]*domain.DirectMessage, error)
}

// UserRepository stores user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
}

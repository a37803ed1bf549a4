//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../mocks/mock_cache.go -package=mocks
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// ConversationCache caches conversations with both memberships loaded.
// Memberships never change after creation, so entries are only dropped by TTL.
type ConversationCache interface {
	Get(ctx context.Context, conversationID string) (*domain.Conversation, error)
	Set(ctx context.Context, conv *domain.Conversation, ttl time.Duration) error
	Delete(ctx context.Context, conversationIDs ...string) error
	Close() error
}

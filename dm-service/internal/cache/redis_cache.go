package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
)

type RedisConversationCache struct {
	client *redis.Client
	prefix string
}

// NewRedisConversationCache wraps an existing client. The caller owns the
// client unless Close is called.
func NewRedisConversationCache(client *redis.Client, prefix string) *RedisConversationCache {
	return &RedisConversationCache{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisConversationCache) key(conversationID string) string {
	return fmt.Sprintf("%s:conversation:%s", c.prefix, conversationID)
}

func (c *RedisConversationCache) Get(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	data, err := c.client.Get(ctx, c.key(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var conv domain.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &conv, nil
}

func (c *RedisConversationCache) Set(ctx context.Context, conv *domain.Conversation, ttl time.Duration) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, c.key(conv.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisConversationCache) Delete(ctx context.Context, conversationIDs ...string) error {
	if len(conversationIDs) == 0 {
		return nil
	}

	keys := make([]string, len(conversationIDs))
	for i, id := range conversationIDs {
		keys[i] = c.key(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}

	return nil
}

func (c *RedisConversationCache) Close() error {
	return c.client.Close()
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/promanage/backend/internal/domain/chat"
	"github.com/promanage/backend/internal/infrastructure/config"
)

// RedisOnlineSet implements chat.OnlineSet on a Redis set.
// Suitable for distributed deployments where multiple relay instances
// need to share presence state.
type RedisOnlineSet struct {
	client *redis.Client
	key    string
}

// NewRedisOnlineSet creates a Redis-backed online set
func NewRedisOnlineSet(cfg config.RedisConfig) (*RedisOnlineSet, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisOnlineSet{
		client: client,
		key:    "presence:online",
	}, nil
}

// NewRedisOnlineSetWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisOnlineSetWithClient(client *redis.Client, key string) *RedisOnlineSet {
	if key == "" {
		key = "presence:online"
	}
	return &RedisOnlineSet{client: client, key: key}
}

// Add marks a user as online
func (s *RedisOnlineSet) Add(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.SAdd(ctx, s.key, userID.String()).Err(); err != nil {
		return fmt.Errorf("failed to mark user online: %w", err)
	}
	return nil
}

// Remove marks a user as offline
func (s *RedisOnlineSet) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.SRem(ctx, s.key, userID.String()).Err(); err != nil {
		return fmt.Errorf("failed to mark user offline: %w", err)
	}
	return nil
}

// Members lists all users currently online. Entries that do not parse
// as UUIDs are skipped.
func (s *RedisOnlineSet) Members(ctx context.Context) ([]uuid.UUID, error) {
	raw, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list online users: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Close closes the Redis client
func (s *RedisOnlineSet) Close() error {
	return s.client.Close()
}

// Ensure RedisOnlineSet implements chat.OnlineSet
var _ chat.OnlineSet = (*RedisOnlineSet)(nil)

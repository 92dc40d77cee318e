package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const conversationPrefix = "conversation:"

// RedisStore persists conversation history in Redis as one JSON blob per
// session with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) key(sessionID string) string {
	return conversationPrefix + sessionID
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (*History, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return &History{Messages: []*schema.Message{}}, nil
		}
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var history History
	if err := sonic.Unmarshal([]byte(data), &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	// Refresh TTL on read
	r.client.Expire(ctx, r.key(sessionID), r.ttl)
	return &history, nil
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, history *History) error {
	data, err := sonic.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	return r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err()
}

func (r *RedisStore) AddMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	history, err := r.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	history.Messages = append(history.Messages, message)
	return r.Save(ctx, sessionID, history)
}

func (r *RedisStore) Reset(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *RedisStore) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

package feedcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long a stale entry survives in Redis. The
// staleness windows decide freshness; the TTL only caps memory growth for
// keys nobody asks for anymore.
const DefaultRedisTTL = 10 * time.Minute

// RedisBackend stores cache entries as JSON values in Redis, shared across
// service instances.
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend creates a backend over an existing Redis client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client, prefix: "feedcache:", ttl: DefaultRedisTTL}
}

var _ Backend = (*RedisBackend)(nil)

// Ping checks the Redis connection.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Get returns the entry for key, or (nil, nil) when absent or expired.
func (b *RedisBackend) Get(ctx context.Context, key string) (*Entry, error) {
	raw, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores the entry for key with the backend TTL.
func (b *RedisBackend) Set(ctx context.Context, key string, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := b.client.Set(ctx, b.prefix+key, raw, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

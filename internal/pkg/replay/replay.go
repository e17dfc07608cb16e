package replay

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrReplayed indicates that the same confirmation key was already applied.
var ErrReplayed = errors.New("confirmation already applied")

// Guard rejects repeated application of the same confirmation key.
//
// A key is claimed atomically with SetNX; the claim expires after the TTL so
// storage does not grow without bound. Within the TTL a second claim of the
// same key fails with ErrReplayed.
type Guard interface {
	Once(ctx context.Context, key string, ttl time.Duration) error
}

// RedisGuard is a Guard backed by a Redis instance shared by all replicas.
type RedisGuard struct {
	client *redis.Client
	prefix string
}

// NewRedisGuard creates a replay guard on the given Redis client.
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{
		client: client,
		prefix: "replay:",
	}
}

const defaultTTL = 24 * time.Hour

// Once claims the key. It returns ErrReplayed when the key was already
// claimed within its TTL, or the Redis error on infrastructure failure.
func (g *RedisGuard) Once(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	claimed, err := g.client.SetNX(ctx, g.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return ErrReplayed
	}

	return nil
}

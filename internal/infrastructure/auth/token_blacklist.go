package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "dukkan:token:blacklist:"

// RedisTokenBlacklist stores revoked token IDs in Redis with a TTL that
// matches the token's remaining lifetime, so entries expire on their own.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist creates a Redis-backed token blacklist
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// Revoke marks a token ID as revoked until the given time
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		// already expired, nothing to store
		return nil
	}
	return b.client.Set(ctx, blacklistKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been revoked
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := b.client.Get(ctx, blacklistKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

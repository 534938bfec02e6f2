package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "denylist:session:"

// Denylist tracks revoked session tokens until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisDenylist stores revoked token IDs in Redis with a TTL matching
// the token's remaining lifetime.
type RedisDenylist struct {
	rdb *redis.Client
}

var _ Denylist = (*RedisDenylist)(nil)

// NewRedisDenylist creates a new RedisDenylist
func NewRedisDenylist(rdb *redis.Client) *RedisDenylist {
	return &RedisDenylist{rdb: rdb}
}

// Revoke marks a token ID as revoked for the given duration
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired on its own
		return nil
	}
	return d.rdb.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been revoked
func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		// Fail open so a Redis outage does not lock everyone out
		return false, nil
	}
	return n > 0, nil
}

package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const limiterKeyPrefix = "mail:reset:"

// limiterPeriod is the window over which reset emails are counted.
const limiterPeriod = 24 * time.Hour

// Limiter caps how many password-reset emails a single user can
// trigger during one period, so the reset flow cannot be used to
// spam a mailbox.
type Limiter interface {
	Allow(ctx context.Context, userID uint) (bool, error)
}

// RedisLimiter counts sends per user in Redis with an expiring key.
type RedisLimiter struct {
	rdb   *redis.Client
	limit int
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a new RedisLimiter
func NewRedisLimiter(rdb *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit}
}

// Allow increments the user's counter and reports whether the send is
// within the limit. The first send of a period sets the key's expiry.
func (l *RedisLimiter) Allow(ctx context.Context, userID uint) (bool, error) {
	key := fmt.Sprintf("%s%d", limiterKeyPrefix, userID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, limiterPeriod).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(l.limit), nil
}

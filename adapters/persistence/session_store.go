package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func revokedKey(tokenID string) string { return "session:revoked:" + tokenID }

func (s *RedisSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (s *RedisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RedisViewCounter keeps per-profile view totals.
type RedisViewCounter struct {
	rdb *redis.Client
}

func NewRedisViewCounter(rdb *redis.Client) *RedisViewCounter {
	return &RedisViewCounter{rdb: rdb}
}

func viewsKey(ownerID uuid.UUID) string      { return "profile:views:" + ownerID.String() }
func lastViewedKey(ownerID uuid.UUID) string { return "profile:last_viewed:" + ownerID.String() }

func (c *RedisViewCounter) Increment(ctx context.Context, ownerID uuid.UUID, at time.Time) (int64, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, viewsKey(ownerID))
	pipe.Set(ctx, lastViewedKey(ownerID), at.UTC().Format(time.RFC3339), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *RedisViewCounter) Count(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	n, err := c.rdb.Get(ctx, viewsKey(ownerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

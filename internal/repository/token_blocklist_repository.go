package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlocklistRepository records revoked JWT IDs until the token would
// have expired anyway.
type TokenBlocklistRepository struct {
	Redis *redis.Client
}

func NewTokenBlocklistRepository(rdb *redis.Client) *TokenBlocklistRepository {
	return &TokenBlocklistRepository{Redis: rdb}
}

func blocklistKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (r *TokenBlocklistRepository) Block(ctx context.Context, tokenID string, ttl time.Duration) error {
	if r.Redis == nil || tokenID == "" || ttl <= 0 {
		return nil
	}
	return r.Redis.Set(ctx, blocklistKey(tokenID), 1, ttl).Err()
}

func (r *TokenBlocklistRepository) IsBlocked(ctx context.Context, tokenID string) (bool, error) {
	if r.Redis == nil || tokenID == "" {
		return false, nil
	}
	n, err := r.Redis.Exists(ctx, blocklistKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

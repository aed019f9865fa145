package repository

import (
	"clever_backend/internal/grading"
	"clever_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CatalogCacheRepository keeps sanitized catalogs in Redis. Tests cannot be
// edited after creation, so entries only expire by TTL.
type CatalogCacheRepository struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewCatalogCacheRepository(rdb *redis.Client, ttl time.Duration) *CatalogCacheRepository {
	return &CatalogCacheRepository{Redis: rdb, TTL: ttl}
}

func catalogKey(testID uint) string {
	return fmt.Sprintf("quiz:catalog:%d", testID)
}

func (r *CatalogCacheRepository) Get(ctx context.Context, testID uint) (*grading.CatalogView, bool) {
	if r.Redis == nil {
		return nil, false
	}
	raw, err := r.Redis.Get(ctx, catalogKey(testID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("catalog cache read failed", zap.Uint("test_id", testID), zap.Error(err))
		}
		return nil, false
	}
	var view grading.CatalogView
	if err := json.Unmarshal(raw, &view); err != nil {
		r.Redis.Del(ctx, catalogKey(testID))
		return nil, false
	}
	return &view, true
}

func (r *CatalogCacheRepository) Set(ctx context.Context, testID uint, view *grading.CatalogView) {
	if r.Redis == nil || view == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := r.Redis.Set(ctx, catalogKey(testID), raw, r.TTL).Err(); err != nil {
		logger.Log.Warn("catalog cache write failed", zap.Uint("test_id", testID), zap.Error(err))
	}
}

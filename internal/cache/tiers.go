package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

const tierCacheKey = "platform_fees:all"

// TierCache keeps the tier table in Redis so fee computation does not hit
// Postgres on every priced write. Any cache failure degrades to a miss.
type TierCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTierCache builds the cache. A nil client disables caching entirely.
func NewTierCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *TierCache {
	return &TierCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached tier table, or ok=false on miss or error.
func (c *TierCache) Get(ctx context.Context) ([]domain.PlatformFee, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, tierCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("tier cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var tiers []domain.PlatformFee
	if err := json.Unmarshal(raw, &tiers); err != nil {
		c.logger.Warn("tier cache payload corrupt; invalidating", zap.Error(err))
		c.Invalidate(ctx)
		return nil, false
	}
	return tiers, true
}

// Set stores the tier table snapshot.
func (c *TierCache) Set(ctx context.Context, tiers []domain.PlatformFee) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(tiers)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, tierCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("tier cache write failed", zap.Error(err))
	}
}

// Invalidate drops the snapshot; called after every tier mutation.
func (c *TierCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, tierCacheKey).Err(); err != nil {
		c.logger.Warn("tier cache invalidation failed", zap.Error(err))
	}
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/logger"
)

const metricsKeyPrefix = "linkedin:metrics:"

// MetricsCache caches per-URN engagement snapshots in Redis. All operations
// tolerate a nil client and degrade to cache misses.
type MetricsCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewMetricsCache(redisClient *redis.Client, ttl time.Duration) *MetricsCache {
	return &MetricsCache{redisClient: redisClient, ttl: ttl}
}

// Get returns the cached metrics for urn, or nil on a miss.
func (c *MetricsCache) Get(ctx context.Context, urn string) *model.ShareMetrics {
	if c == nil || c.redisClient == nil {
		return nil
	}
	raw, err := c.redisClient.Get(ctx, metricsKeyPrefix+urn).Result()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithField("error", err).Warn("Error while reading metrics cache")
		}
		return nil
	}
	var m model.ShareMetrics
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return &m
}

func (c *MetricsCache) Set(ctx context.Context, urn string, m model.ShareMetrics) {
	if c == nil || c.redisClient == nil {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.redisClient.Set(ctx, metricsKeyPrefix+urn, raw, c.ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while writing metrics cache")
	}
}

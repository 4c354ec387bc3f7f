package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"skallars-social/infrastructure/logger"
)

// NewCache connects a Redis client. Callers tolerate a nil client; cached
// features degrade to direct reads when Redis is unavailable.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available")
		return nil, err
	}
	return client, nil
}

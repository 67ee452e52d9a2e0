package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"careform-api/internal/config"
)

var RedisClient *redis.Client

// InitRedis establishes the Redis connection used for billing-tier caching.
// A redis:// URL takes precedence over host/port settings.
func InitRedis(cfg *config.Config, log *zap.Logger) error {
	var client *redis.Client

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	RedisClient = client
	log.Info("Redis connection established successfully",
		zap.String("host", cfg.Redis.Host),
		zap.Int("db", cfg.Redis.DB),
	)
	return nil
}

// GetRedis returns the shared Redis client. It may be nil when Redis is
// unavailable; callers degrade to uncached behavior in that case.
func GetRedis() *redis.Client {
	return RedisClient
}

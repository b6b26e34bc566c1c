package cache

import (
	"context"
	"time"

	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil when caching is disabled; callers then read straight from the store.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errs.Wrap(err, "failed to ping redis")
	}

	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

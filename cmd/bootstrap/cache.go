package bootstrap

import (
	"context"
	"log/slog"

	"slot-reservation-engine/internal/infra/cache"
	"slot-reservation-engine/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis yields a nil client when REDIS_ENABLED=false.
func NewRedis(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client, cleanup, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		slog.Info("resource cache disabled")
		return nil, nil
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return client, nil
}

package bootstrap

import (
	"context"
	"log/slog"

	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/pkg/obs"

	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(InitTracing),
)

func InitTracing(lc fx.Lifecycle, cfg config.Config) error {
	shutdown, err := obs.InitTracer(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := shutdown(ctx); err != nil {
				slog.Warn("tracer shutdown failed", "error", err.Error())
			}
			return nil
		},
	})
	return nil
}

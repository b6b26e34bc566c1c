package bootstrap

import (
	"context"
	"log/slog"

	"slot-reservation-engine/internal/infra/messaging"
	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/worker"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewEventPublisher,
	),
)

// NewEventPublisher falls back to logging events when no broker is configured.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) (worker.EventPublisher, error) {
	if !cfg.AMQP.Enabled {
		slog.Info("amqp disabled; outbox events are logged only")
		return messaging.LogPublisher{}, nil
	}

	pub, err := messaging.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}

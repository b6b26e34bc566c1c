package bootstrap

import (
	"context"
	"log/slog"

	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/shared"
	"slot-reservation-engine/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewWorkerRunner,
	),
	fx.Invoke(StartWorkers),
)

func NewWorkerRunner(
	cfg config.Config,
	reaper commands.ReaperCommands,
	uow shared.UnitOfWork,
	publisher worker.EventPublisher,
	clk clock.Clock,
) *worker.Runner {
	var loops []*worker.Loop
	if cfg.Reaper.Enabled {
		loops = append(loops, &worker.Loop{Job: worker.NewReaperJob(reaper), Interval: cfg.Reaper.Interval})
	}
	if cfg.Outbox.Enabled {
		relay := worker.NewOutboxRelay(uow, publisher, clk, cfg.Outbox.BatchSize, cfg.Outbox.MaxAttempts)
		loops = append(loops, &worker.Loop{Job: relay, Interval: cfg.Outbox.Interval})
	}
	return worker.NewRunner(loops...)
}

func StartWorkers(lc fx.Lifecycle, runner *worker.Runner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			slog.Info("starting background workers")
			runner.Start(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Info("stopping background workers")
			return runner.Stop(ctx)
		},
	})
}

package worker

import (
	"context"
	"log/slog"
	"time"
)

// Job is one unit of periodic background work.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Loop runs job every interval until ctx is done. The first run happens immediately.
type Loop struct {
	Job      Job
	Interval time.Duration
}

func (l *Loop) Run(ctx context.Context) error {
	t := time.NewTicker(l.Interval)
	defer t.Stop()

	// kick immediately
	l.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			l.tick(ctx)
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	if err := l.Job.RunOnce(ctx); err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "background job failed",
			"job", l.Job.Name(),
			"error", err.Error())
	}
}

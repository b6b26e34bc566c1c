package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Runner owns the background loops for the lifetime of the process.
type Runner struct {
	loops []*Loop

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(loops ...*Loop) *Runner {
	return &Runner{loops: loops}
}

func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(context.WithoutCancel(ctx))
	for _, l := range r.loops {
		r.wg.Add(1)
		go func(l *Loop) {
			defer r.wg.Done()
			slog.Info("background job started", "job", l.Job.Name(), "interval", l.Interval.String())
			if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("background job stopped", "job", l.Job.Name(), "error", err.Error())
			}
		}(l)
	}
}

// Stop cancels all loops and waits for in-flight runs, or until ctx expires.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

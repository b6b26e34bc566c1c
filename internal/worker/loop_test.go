//go:build unit

package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/worker"
	commandsmock "slot-reservation-engine/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) RunOnce(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestLoop_Run(t *testing.T) {
	t.Run("runs immediately and stops on cancel", func(t *testing.T) {
		job := &countingJob{err: errors.New("transient")}
		loop := &worker.Loop{Job: job, Interval: time.Hour}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- loop.Run(ctx) }()

		require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("loop did not stop")
		}
	})

	t.Run("ticks on interval", func(t *testing.T) {
		job := &countingJob{}
		loop := &worker.Loop{Job: job, Interval: 10 * time.Millisecond}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = loop.Run(ctx) }()

		assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	})
}

func TestRunner_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	reaper := commandsmock.NewMockReaperCommands(ctrl)

	called := make(chan struct{}, 1)
	reaper.EXPECT().ReapStale(gomock.Any()).DoAndReturn(func(context.Context) (*commands.ReapResult, error) {
		select {
		case called <- struct{}{}:
		default:
		}
		return &commands.ReapResult{}, nil
	}).MinTimes(1)

	runner := worker.NewRunner(&worker.Loop{Job: worker.NewReaperJob(reaper), Interval: time.Hour})
	runner.Start(context.Background())

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("reaper was not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, runner.Stop(ctx))
}

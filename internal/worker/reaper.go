package worker

import (
	"context"

	"slot-reservation-engine/internal/usecase/commands"
)

type ReaperJob struct {
	reaper commands.ReaperCommands
}

func NewReaperJob(reaper commands.ReaperCommands) *ReaperJob {
	return &ReaperJob{reaper: reaper}
}

func (j *ReaperJob) Name() string { return "pending_reaper" }

func (j *ReaperJob) RunOnce(ctx context.Context) error {
	_, err := j.reaper.ReapStale(ctx)
	return err
}

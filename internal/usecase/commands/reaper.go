package commands

import (
	"context"
	"log/slog"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type ReapResult struct {
	Scanned int
	Expired int
	Skipped int
	Failed  int
	// Purged counts idempotency keys dropped after their expiry.
	Purged  int64
}

type ReaperCommands interface {
	// ReapStale fails PENDING bookings older than the configured TTL, one batch per call,
	// and purges expired idempotency keys.
	ReapStale(ctx context.Context) (*ReapResult, error)
}

type reaperUseCaseImpl struct {
	uow      shared.UnitOfWork
	gateway  PaymentGateway
	clock    clock.Clock
	settings Settings
}

func NewReaperUseCase(uow shared.UnitOfWork, gateway PaymentGateway, clk clock.Clock, settings Settings) ReaperCommands {
	return &reaperUseCaseImpl{
		uow:      uow,
		gateway:  gateway,
		clock:    clk,
		settings: settings,
	}
}

type reapOutcome int

const (
	reapExpired reapOutcome = iota
	reapSkipped
)

func (uc *reaperUseCaseImpl) ReapStale(ctx context.Context) (*ReapResult, error) {
	ctx, span := tracer.Start(ctx, "commands.ReapStale")
	defer span.End()

	cutoff := uc.clock.Now().Add(-uc.settings.PendingTTL)
	stale, err := uc.uow.CommandReads().StalePending(ctx, cutoff, uc.settings.ReaperBatch)
	if err != nil {
		err = storeErr(err, nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errs.CategoryOf(err)))
		return nil, err
	}

	result := &ReapResult{Scanned: len(stale)}
	for _, b := range stale {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome, err := uc.reapOne(ctx, b)
		if err != nil {
			result.Failed++
			slog.WarnContext(ctx, "failed to reap pending booking",
				"booking_id", b.ID().String(),
				"error", err.Error())
			continue
		}
		switch outcome {
		case reapExpired:
			result.Expired++
		case reapSkipped:
			result.Skipped++
		}
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		purged, err := tx.Idempotency().DeleteExpired(ctx, uc.clock.Now())
		result.Purged = purged
		return err
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to purge expired idempotency keys", "error", err.Error())
	}

	span.SetAttributes(
		attribute.Int("reaper.scanned", result.Scanned),
		attribute.Int("reaper.expired", result.Expired),
		attribute.Int("reaper.skipped", result.Skipped),
	)
	if result.Scanned > 0 {
		slog.InfoContext(ctx, "pending reaper sweep finished",
			"scanned", result.Scanned,
			"expired", result.Expired,
			"skipped", result.Skipped,
			"failed", result.Failed)
	}
	return result, nil
}

func (uc *reaperUseCaseImpl) reapOne(ctx context.Context, b *booking.Booking) (reapOutcome, error) {
	// the store filters on its own clock; never expire a booking this process still sees as fresh
	if !b.IsStale(uc.clock.Now(), uc.settings.PendingTTL) {
		return reapSkipped, nil
	}
	if intent := b.Intent(); b.Method().UsesGateway() && intent != nil && intent.ID != "" {
		released, err := uc.releaseIntent(ctx, b, intent.ID)
		if err != nil || !released {
			return reapSkipped, err
		}
	}

	failed, err := failPending(ctx, uc.uow, uc.clock, b.ID(), booking.FailureExpired)
	if err != nil {
		return reapSkipped, storeErr(err, ErrBookingNotFound)
	}
	if !failed {
		return reapSkipped, nil
	}
	return reapExpired, nil
}

// releaseIntent reports true once the intent is canceled and can no longer take money.
// Intents that succeeded or are still settling keep their booking PENDING for confirmation.
func (uc *reaperUseCaseImpl) releaseIntent(ctx context.Context, b *booking.Booking, intentID string) (bool, error) {
	status, err := uc.gateway.GetIntentStatus(ctx, intentID)
	if err != nil {
		return false, errs.Mark(err, ErrGatewayUnavailable)
	}
	if status.Canceled() {
		return true, nil
	}
	if !status.Cancelable() {
		slog.WarnContext(ctx, "stale booking has a settling or paid intent, leaving for confirmation",
			"booking_id", b.ID().String(),
			"intent_id", intentID,
			"intent_status", status.Status)
		return false, nil
	}

	err = uc.gateway.CancelIntent(ctx, intentID)
	switch {
	case err == nil:
		return true, nil
	case errs.Is(err, ErrIntentNotCancelable):
		// The payer acted between the read and the cancel.
		status, rerr := uc.gateway.GetIntentStatus(ctx, intentID)
		if rerr != nil {
			return false, errs.Mark(rerr, ErrGatewayUnavailable)
		}
		if status.Canceled() {
			return true, nil
		}
		slog.WarnContext(ctx, "payment intent moved past cancel, leaving for confirmation",
			"booking_id", b.ID().String(),
			"intent_id", intentID,
			"intent_status", status.Status)
		return false, nil
	default:
		return false, errs.Mark(err, ErrGatewayUnavailable)
	}
}

package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ConfirmInput struct {
	BookingID uuid.UUID
	Actor     user.Principal
	Evidence  *booking.Evidence
}

type ConfirmResult struct {
	BookingID     uuid.UUID
	Status        booking.Status
	FailureReason *booking.FailureReason
	PaidAt        *time.Time
}

type ConfirmationCommands interface {
	// Confirm reconciles a card booking against the gateway.
	Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
	// AttestCash confirms a cash booking on behalf of the resource owner.
	AttestCash(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
}

type confirmationUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	clock   clock.Clock
}

func NewConfirmationUseCase(uow shared.UnitOfWork, gateway PaymentGateway, clk clock.Clock) ConfirmationCommands {
	return &confirmationUseCaseImpl{
		uow:     uow,
		gateway: gateway,
		clock:   clk,
	}
}

func (uc *confirmationUseCaseImpl) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	ctx, span := tracer.Start(ctx, "commands.Confirm", trace.WithAttributes(
		attribute.String("booking.id", in.BookingID.String()),
	))
	defer span.End()

	result, err := uc.confirmCard(ctx, in)
	return traced(span, result, err)
}

func (uc *confirmationUseCaseImpl) AttestCash(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	ctx, span := tracer.Start(ctx, "commands.AttestCash", trace.WithAttributes(
		attribute.String("booking.id", in.BookingID.String()),
	))
	defer span.End()

	result, err := uc.attestCash(ctx, in)
	return traced(span, result, err)
}

func traced(span trace.Span, result *ConfirmResult, err error) (*ConfirmResult, error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errs.CategoryOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.status", result.Status.String()))
	return result, nil
}

func (uc *confirmationUseCaseImpl) confirmCard(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	b, err := uc.load(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(in.Actor.ID) && !in.Actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !b.Method().UsesGateway() {
		return nil, ErrWrongConfirmationPath
	}
	if err := pendingGuard(b); err != nil {
		return nil, err
	}

	// The gateway is consulted before any transaction is opened.
	if reason, err := uc.verifyIntent(ctx, b); err != nil {
		return nil, err
	} else if reason != nil {
		if _, ferr := failPending(ctx, uc.uow, uc.clock, b.ID(), *reason); ferr != nil {
			return nil, storeErr(ferr, ErrBookingNotFound)
		}
		slog.WarnContext(ctx, "payment not settled, booking failed",
			"booking_id", b.ID().String(),
			"reason", string(*reason))
		return nil, ErrUnsuccessfulTransaction
	}

	return uc.finalize(ctx, b.ID(), in.Evidence)
}

func (uc *confirmationUseCaseImpl) attestCash(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	b, err := uc.load(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if !canAttestCash(in.Actor, b) {
		return nil, ErrForbidden
	}
	if b.Method().UsesGateway() {
		return nil, ErrWrongConfirmationPath
	}
	if err := pendingGuard(b); err != nil {
		return nil, err
	}

	return uc.finalize(ctx, b.ID(), in.Evidence)
}

func canAttestCash(actor user.Principal, b *booking.Booking) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == user.RoleMerchant && b.OwnerID() == actor.ID
}

func (uc *confirmationUseCaseImpl) load(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := uc.uow.CommandReads().BookingByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrBookingNotFound)
	}
	return b, nil
}

func pendingGuard(b *booking.Booking) error {
	switch b.Status() {
	case booking.StatusSuccess:
		return ErrAlreadyConfirmed
	case booking.StatusFailed:
		return ErrBookingNotPending
	default:
		return nil
	}
}

// verifyIntent returns a failure reason when the gateway does not report the expected settlement.
func (uc *confirmationUseCaseImpl) verifyIntent(ctx context.Context, b *booking.Booking) (*booking.FailureReason, error) {
	intent := b.Intent()
	if intent == nil || intent.ID == "" {
		reason := booking.FailurePaymentUnsuccessful
		return &reason, nil
	}

	status, err := uc.gateway.GetIntentStatus(ctx, intent.ID)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayUnavailable)
	}

	if !status.Succeeded() {
		reason := booking.FailurePaymentUnsuccessful
		return &reason, nil
	}
	if status.Amount != b.Quote().AmountPayable.Cents() || !strings.EqualFold(status.Currency, intent.Currency) {
		reason := booking.FailureAmountMismatch
		return &reason, nil
	}
	return nil, nil
}

// finalize re-checks the slot and commits SUCCESS, or FAILED when another booking won.
func (uc *confirmationUseCaseImpl) finalize(ctx context.Context, id uuid.UUID, evidence *booking.Evidence) (*ConfirmResult, error) {
	var (
		outcome  *booking.Booking
		conflict bool
	)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		outcome, conflict = nil, false

		b, err := tx.Bookings().LockByID(ctx, id)
		if err != nil {
			return err
		}
		if err := pendingGuard(b); err != nil {
			return err
		}

		excluded := b.ID()
		taken, err := tx.Reads().HasOverlap(ctx, shared.OverlapQuery{
			ResourceID: b.ResourceID(),
			Slot:       b.Slot(),
			Interval:   b.Interval(),
			Statuses:   []booking.Status{booking.StatusSuccess},
			ExcludeID:  &excluded,
		})
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if taken {
			conflict = true
			if err := b.Fail(booking.FailureSlotTaken, now); err != nil {
				return err
			}
		} else if err := b.Confirm(now, evidence); err != nil {
			return err
		}

		if err := persistTransition(ctx, tx, b); err != nil {
			return err
		}
		outcome = b
		return nil
	})

	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// A concurrent confirmation committed first and the store rejected ours.
			if _, ferr := failPending(ctx, uc.uow, uc.clock, id, booking.FailureSlotTaken); ferr != nil {
				slog.ErrorContext(ctx, "failed to mark conflicting booking as failed",
					"booking_id", id.String(),
					"error", ferr.Error())
			}
			return nil, errs.Mark(err, ErrSlotNotAvailable)
		}
		return nil, storeErr(err, ErrBookingNotFound)
	}

	if conflict {
		slog.InfoContext(ctx, "slot taken at confirmation, booking failed", "booking_id", id.String())
		// TODO: enqueue a refund request for card bookings failed with slot_taken
		return nil, ErrSlotNotAvailable
	}

	slog.InfoContext(ctx, "booking confirmed",
		"booking_id", outcome.ID().String(),
		"method", outcome.Method().String())
	return toConfirmResult(outcome), nil
}

func toConfirmResult(b *booking.Booking) *ConfirmResult {
	return &ConfirmResult{
		BookingID:     b.ID(),
		Status:        b.Status(),
		FailureReason: b.FailureReason(),
		PaidAt:        b.PaidAt(),
	}
}

package commands

import (
	"context"
	"encoding/json"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingEvent is the outbox payload for booking state transitions.
type BookingEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	ResourceID    uuid.UUID  `json:"resource_id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	SlotID        string     `json:"slot_id"`
	From          time.Time  `json:"from"`
	To            time.Time  `json:"to"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method"`
	AmountPayable string     `json:"amount_payable"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

func newBookingEvent(b *booking.Booking) BookingEvent {
	ev := BookingEvent{
		BookingID:     b.ID(),
		ResourceID:    b.ResourceID(),
		OwnerID:       b.OwnerID(),
		CustomerID:    b.CustomerID(),
		SlotID:        b.Slot().String(),
		From:          b.Interval().From(),
		To:            b.Interval().To(),
		Status:        b.Status().String(),
		PaymentMethod: b.Method().String(),
		AmountPayable: b.Quote().AmountPayable.String(),
		PaidAt:        b.PaidAt(),
		OccurredAt:    b.UpdatedAt(),
	}
	if reason := b.FailureReason(); reason != nil {
		r := string(*reason)
		ev.FailureReason = &r
	}
	return ev
}

func topicFor(status booking.Status) string {
	if status == booking.StatusSuccess {
		return shared.TopicBookingConfirmed
	}
	return shared.TopicBookingFailed
}

// persistTransition writes the status change and its outbox event in the caller's transaction.
func persistTransition(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	moved, err := tx.Bookings().Transition(ctx, b)
	if err != nil {
		return err
	}
	if !moved {
		return ErrBookingNotPending
	}

	payload, err := json.Marshal(newBookingEvent(b))
	if err != nil {
		return err
	}
	return tx.Outbox().Enqueue(ctx, topicFor(b.Status()), b.ID(), payload, b.UpdatedAt())
}

// failPending marks a still-PENDING booking FAILED in its own transaction.
// It reports false when the booking had already left PENDING.
func failPending(ctx context.Context, uow shared.UnitOfWork, clk clock.Clock, id uuid.UUID, reason booking.FailureReason) (bool, error) {
	failed := false
	err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		failed = false
		b, err := tx.Bookings().LockByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Status() != booking.StatusPending {
			return nil
		}
		if err := b.Fail(reason, clk.Now()); err != nil {
			return err
		}
		if err := persistTransition(ctx, tx, b); err != nil {
			return err
		}
		failed = true
		return nil
	})
	return failed, err
}

package shared

import (
	"context"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/domain/resource"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Outbox() OutboxRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	HasOverlap(ctx context.Context, q OverlapQuery) (bool, error)
	StalePending(ctx context.Context, createdBefore time.Time, limit int32) ([]*booking.Booking, error)
	IdempotencyByKey(ctx context.Context, key, customerID uuid.UUID) (*IdempotencyRecord, error)
}

// ResourceCatalog serves bookable resource definitions, possibly from cache.
type ResourceCatalog interface {
	ResourceByID(ctx context.Context, id uuid.UUID) (*resource.BookableResource, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// LockByID reads the booking with a row lock held until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// Transition persists a PENDING -> terminal move; false when the row was no longer PENDING.
	Transition(ctx context.Context, b *booking.Booking) (bool, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte, availableAt time.Time) error
	// ClaimBatch takes due events and pushes their availability to leaseUntil, so the
	// claim can commit before the events are published.
	ClaimBatch(ctx context.Context, now, leaseUntil time.Time, limit int32) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, lastError string, nextAttemptAt time.Time, maxAttempts int32) error
}

type IdempotencyRepository interface {
	// TryInsert reports false when the key is already held by this customer.
	TryInsert(ctx context.Context, claim IdempotencyClaim) (bool, error)
	// ClaimExpired takes over a held key whose expiry is at or before now.
	ClaimExpired(ctx context.Context, claim IdempotencyClaim, now time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, key, customerID, bookingID uuid.UUID) error
	// Release drops a key still in processing so the client can retry with it.
	Release(ctx context.Context, key, customerID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

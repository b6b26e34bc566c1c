package shared

import (
	"time"

	"slot-reservation-engine/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponSnapshot struct {
	ID        uuid.UUID
	Code      string
	Rate      decimal.Decimal
	Active    bool
	ValidFrom *time.Time
	ValidTo   *time.Time
}

// OverlapQuery asks whether any booking in Statuses on (ResourceID, Slot) intersects Interval.
type OverlapQuery struct {
	ResourceID uuid.UUID
	Slot       booking.SlotID
	Interval   booking.Interval
	Statuses   []booking.Status
	ExcludeID  *uuid.UUID
}

type OutboxEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	Attempts    int32
	CreatedAt   time.Time
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

// IdempotencyClaim reserves a client key for one request shape until ExpiresAt.
type IdempotencyClaim struct {
	Key         uuid.UUID
	CustomerID  uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   time.Time
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	CustomerID      uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

const (
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingFailed    = "booking.failed"
)

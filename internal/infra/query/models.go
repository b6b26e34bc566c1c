package query

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookableResource struct {
	ID        uuid.UUID
	Kind      string
	OwnerID   uuid.UUID
	Name      string
	Zones     []byte
	Schedule  []byte
	Timezone  string
	Latitude  pgtype.Float8
	Longitude pgtype.Float8
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Coupon struct {
	ID        uuid.UUID
	Code      string
	Rate      string
	Active    bool
	ValidFrom pgtype.Timestamptz
	ValidTo   pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Booking struct {
	ID                  uuid.UUID
	ResourceID          uuid.UUID
	OwnerID             uuid.UUID
	SlotID              string
	CustomerID          uuid.UUID
	StartsAt            pgtype.Timestamptz
	EndsAt              pgtype.Timestamptz
	PaymentStatus       string
	PaymentMethod       string
	HourlyRateCents     int64
	BaseAmountCents     int64
	PlatformChargeCents int64
	DiscountCents       int64
	AmountPayableCents  int64
	IntentID            pgtype.Text
	IntentClientSecret  pgtype.Text
	IntentAmountCents   pgtype.Int8
	IntentCurrency      pgtype.Text
	CouponCode          pgtype.Text
	VehicleID           pgtype.Text
	EvidenceImageRef    pgtype.Text
	EvidenceNote        pgtype.Text
	FailureReason       pgtype.Text
	PaidAt              pgtype.Timestamptz
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
}

type OutboxEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	Status      string
	Attempts    int32
	LastError   pgtype.Text
	AvailableAt pgtype.Timestamptz
	SentAt      pgtype.Timestamptz
	CreatedAt   pgtype.Timestamptz
}

type IdempotencyKey struct {
	Key             uuid.UUID
	CustomerID      uuid.UUID
	Endpoint        string
	RequestHash     string
	Status          string
	ResultBookingID pgtype.UUID
	ExpiresAt       pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

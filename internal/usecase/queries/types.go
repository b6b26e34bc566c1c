package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookingView represents read-optimized booking data
type BookingView struct {
	ID                  uuid.UUID  `json:"id"`
	ResourceID          uuid.UUID  `json:"resource_id"`
	ResourceName        string     `json:"resource_name"`
	ResourceKind        string     `json:"resource_kind"`
	OwnerID             uuid.UUID  `json:"owner_id"`
	CustomerID          uuid.UUID  `json:"customer_id"`
	SlotID              string     `json:"slot_id"`
	From                time.Time  `json:"from"`
	To                  time.Time  `json:"to"`
	Status              string     `json:"status"`
	PaymentMethod       string     `json:"payment_method"`
	HourlyRateCents     int64      `json:"hourly_rate_cents"`
	BaseAmountCents     int64      `json:"base_amount_cents"`
	PlatformChargeCents int64      `json:"platform_charge_cents"`
	DiscountCents       int64      `json:"discount_cents"`
	AmountPayableCents  int64      `json:"amount_payable_cents"`
	Currency            *string    `json:"currency,omitempty"`
	IntentID            *string    `json:"intent_id,omitempty"`
	CouponCode          *string    `json:"coupon_code,omitempty"`
	VehicleID           *string    `json:"vehicle_id,omitempty"`
	EvidenceImageRef    *string    `json:"evidence_image_ref,omitempty"`
	EvidenceNote        *string    `json:"evidence_note,omitempty"`
	FailureReason       *string    `json:"failure_reason,omitempty"`
	PaidAt              *time.Time `json:"paid_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID                 uuid.UUID `json:"id"`
	ResourceID         uuid.UUID `json:"resource_id"`
	ResourceName       string    `json:"resource_name"`
	SlotID             string    `json:"slot_id"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	Status             string    `json:"status"`
	PaymentMethod      string    `json:"payment_method"`
	AmountPayableCents int64     `json:"amount_payable_cents"`
	CreatedAt          time.Time `json:"created_at"`
}

type ZoneAvailability struct {
	Zone              string   `json:"zone"`
	Capacity          int      `json:"capacity"`
	RemainingCapacity int      `json:"remaining_capacity"`
	HourlyRateCents   int64    `json:"hourly_rate_cents"`
	OccupiedSlots     []string `json:"occupied_slots"`
}

// AvailabilityView answers what capacity remains on a resource for an interval
type AvailabilityView struct {
	ResourceID        uuid.UUID          `json:"resource_id"`
	From              time.Time          `json:"from"`
	To                time.Time          `json:"to"`
	IsOpenNow         bool               `json:"is_open_now"`
	TotalCapacity     int                `json:"total_capacity"`
	RemainingCapacity int                `json:"remaining_capacity"`
	OccupiedSlots     []string           `json:"occupied_slots"`
	Zones             []ZoneAvailability `json:"zones"`
}

package booking

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIntent is the gateway correlation record embedded in a card booking.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       Money
	Currency     string
}

// Evidence is supplementary proof attached on confirmation.
type Evidence struct {
	VehiclePlateImageRef string
	Note                 string
}

type NewBookingParams struct {
	ResourceID uuid.UUID
	OwnerID    uuid.UUID
	Slot       SlotID
	CustomerID uuid.UUID
	Interval   Interval
	Method     PaymentMethod
	Quote      Quote
	CouponCode *string
	VehicleID  *string
}

type Booking struct {
	id            uuid.UUID
	resourceID    uuid.UUID
	ownerID       uuid.UUID
	slot          SlotID
	customerID    uuid.UUID
	interval      Interval
	status        Status
	method        PaymentMethod
	quote         Quote
	intent        *PaymentIntent
	couponCode    *string
	vehicleID     *string
	evidence      *Evidence
	failureReason *FailureReason
	paidAt        *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewPendingBooking(p NewBookingParams, now time.Time) (*Booking, error) {
	if p.ResourceID == uuid.Nil {
		return nil, ErrMissingResource
	}
	if p.CustomerID == uuid.Nil {
		return nil, ErrMissingCustomer
	}
	if p.Slot.IsZero() {
		return nil, ErrInvalidSlot
	}
	if p.Interval.Duration() <= 0 {
		return nil, ErrInvalidInterval
	}
	if _, err := NewPaymentMethod(p.Method.String()); err != nil {
		return nil, err
	}

	return &Booking{
		id:         uuid.New(),
		resourceID: p.ResourceID,
		ownerID:    p.OwnerID,
		slot:       p.Slot,
		customerID: p.CustomerID,
		interval:   p.Interval,
		status:     StatusPending,
		method:     p.Method,
		quote:      p.Quote,
		couponCode: p.CouponCode,
		vehicleID:  p.VehicleID,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

type ReconstructParams struct {
	ID            uuid.UUID
	ResourceID    uuid.UUID
	OwnerID       uuid.UUID
	Slot          SlotID
	CustomerID    uuid.UUID
	Interval      Interval
	Status        Status
	Method        PaymentMethod
	Quote         Quote
	Intent        *PaymentIntent
	CouponCode    *string
	VehicleID     *string
	Evidence      *Evidence
	FailureReason *FailureReason
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructBooking(p ReconstructParams) *Booking {
	return &Booking{
		id:            p.ID,
		resourceID:    p.ResourceID,
		ownerID:       p.OwnerID,
		slot:          p.Slot,
		customerID:    p.CustomerID,
		interval:      p.Interval,
		status:        p.Status,
		method:        p.Method,
		quote:         p.Quote,
		intent:        p.Intent,
		couponCode:    p.CouponCode,
		vehicleID:     p.VehicleID,
		evidence:      p.Evidence,
		failureReason: p.FailureReason,
		paidAt:        p.PaidAt,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
}

func (b *Booking) AttachIntent(intent PaymentIntent) error {
	if !b.method.UsesGateway() {
		return ErrIntentNotAllowed
	}
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.intent = &intent
	return nil
}

// Confirm moves PENDING to SUCCESS exactly once.
func (b *Booking) Confirm(paidAt time.Time, evidence *Evidence) error {
	switch b.status {
	case StatusSuccess:
		return ErrAlreadyConfirmed
	case StatusFailed:
		return ErrNotPending
	}
	b.status = StatusSuccess
	b.paidAt = &paidAt
	if evidence != nil {
		b.evidence = evidence
	}
	b.updatedAt = paidAt
	return nil
}

func (b *Booking) Fail(reason FailureReason, now time.Time) error {
	switch b.status {
	case StatusSuccess:
		return ErrAlreadyConfirmed
	case StatusFailed:
		return ErrNotPending
	}
	b.status = StatusFailed
	b.failureReason = &reason
	b.updatedAt = now
	return nil
}

func (b *Booking) IsOwnedBy(customerID uuid.UUID) bool {
	return b.customerID == customerID
}

func (b *Booking) IsStale(now time.Time, ttl time.Duration) bool {
	return b.status == StatusPending && !b.createdAt.Add(ttl).After(now)
}

func (b *Booking) ID() uuid.UUID                 { return b.id }
func (b *Booking) ResourceID() uuid.UUID         { return b.resourceID }
func (b *Booking) OwnerID() uuid.UUID            { return b.ownerID }
func (b *Booking) Slot() SlotID                  { return b.slot }
func (b *Booking) CustomerID() uuid.UUID         { return b.customerID }
func (b *Booking) Interval() Interval            { return b.interval }
func (b *Booking) Status() Status                { return b.status }
func (b *Booking) Method() PaymentMethod         { return b.method }
func (b *Booking) Quote() Quote                  { return b.quote }
func (b *Booking) Intent() *PaymentIntent        { return b.intent }
func (b *Booking) CouponCode() *string           { return b.couponCode }
func (b *Booking) VehicleID() *string            { return b.vehicleID }
func (b *Booking) Evidence() *Evidence           { return b.evidence }
func (b *Booking) FailureReason() *FailureReason { return b.failureReason }
func (b *Booking) PaidAt() *time.Time            { return b.paidAt }
func (b *Booking) CreatedAt() time.Time          { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time          { return b.updatedAt }

package coupon

import (
	"errors"
	"time"

	"slot-reservation-engine/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")
	ErrCouponInactive    = errors.New("coupon is inactive")
)

type Coupon struct {
	id        uuid.UUID
	code      Code
	rate      Rate
	active    bool
	validFrom *time.Time
	validTo   *time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	rate decimal.Decimal,
	active bool,
	validFrom, validTo *time.Time,
) (*Coupon, error) {
	couponCode, err := NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	couponRate, err := NewRate(rate)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:        id,
		code:      couponCode,
		rate:      couponRate,
		active:    active,
		validFrom: validFrom,
		validTo:   validTo,
	}, nil
}

func (c *Coupon) IsValidAt(t time.Time) bool {
	return c.ValidateUsage(t) == nil
}

func (c *Coupon) ValidateUsage(t time.Time) error {
	if !c.active {
		return ErrCouponInactive
	}
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return ErrCouponNotYetValid
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return ErrCouponExpired
	}
	return nil
}

// Application is the boolean-plus-rate result the pricing calculator consumes.
func (c *Coupon) Application() *booking.CouponApplication {
	return &booking.CouponApplication{
		Code: c.code.String(),
		Rate: c.rate.Decimal(),
	}
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Rate() Rate            { return c.rate }
func (c *Coupon) Active() bool          { return c.active }
func (c *Coupon) ValidFrom() *time.Time { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time   { return c.validTo }

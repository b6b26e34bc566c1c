//go:build unit || e2e

package builder

import (
	"time"

	"slot-reservation-engine/internal/domain/booking"
	reqdto "slot-reservation-engine/internal/handler/dto/request"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ResourceID uuid.UUID
	OwnerID    uuid.UUID
	Slot       booking.SlotID
	CustomerID uuid.UUID
	From       time.Time
	To         time.Time
	Method     booking.PaymentMethod
	RateCents  int64
	CouponCode *string
	VehicleID  *string
	Intent     *booking.PaymentIntent
	CreatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	slot, _ := booking.NewSlotID("A", 1)
	from := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	vehicle := "品川 300 あ 12-34"
	return &BookingBuilder{
		ResourceID: uuid.New(),
		OwnerID:    uuid.New(),
		Slot:       slot,
		CustomerID: uuid.New(),
		From:       from,
		To:         from.Add(2 * time.Hour),
		Method:     booking.PaymentMethodCard,
		RateCents:  10000,
		VehicleID:  &vehicle,
		CreatedAt:  from.Add(-24 * time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) ForResource(resourceID, ownerID uuid.UUID) *BookingBuilder {
	b.ResourceID = resourceID
	b.OwnerID = ownerID
	return b
}

func (b *BookingBuilder) WithSlot(zone string, numeral int) *BookingBuilder {
	s, err := booking.NewSlotID(booking.ZoneCode(zone), numeral)
	if err != nil {
		panic(err)
	}
	b.Slot = s
	return b
}

func (b *BookingBuilder) WithInterval(from, to time.Time) *BookingBuilder {
	b.From = from
	b.To = to
	return b
}

func (b *BookingBuilder) WithCustomer(id uuid.UUID) *BookingBuilder {
	b.CustomerID = id
	return b
}

func (b *BookingBuilder) WithMethod(m booking.PaymentMethod) *BookingBuilder {
	b.Method = m
	return b
}

func (b *BookingBuilder) WithIntent(id string) *BookingBuilder {
	b.Intent = &booking.PaymentIntent{ID: id, ClientSecret: id + "_secret"}
	return b
}

func (b *BookingBuilder) WithCreatedAt(t time.Time) *BookingBuilder {
	b.CreatedAt = t
	return b
}

func (b *BookingBuilder) quote() booking.Quote {
	calc, _ := booking.NewDefaultPriceCalculator(booking.DefaultPlatformRate)
	rate, _ := booking.NewMoney(b.RateCents)
	q, err := calc.Calculate(rate, booking.ReconstructInterval(b.From, b.To), nil)
	if err != nil {
		panic(err)
	}
	return q
}

func (b *BookingBuilder) BuildPending() (*booking.Booking, error) {
	iv, err := booking.NewInterval(b.From, b.To)
	if err != nil {
		return nil, err
	}
	bk, err := booking.NewPendingBooking(booking.NewBookingParams{
		ResourceID: b.ResourceID,
		OwnerID:    b.OwnerID,
		Slot:       b.Slot,
		CustomerID: b.CustomerID,
		Interval:   iv,
		Method:     b.Method,
		Quote:      b.quote(),
		CouponCode: b.CouponCode,
		VehicleID:  b.VehicleID,
	}, b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if b.Intent != nil {
		intent := *b.Intent
		intent.Amount = bk.Quote().AmountPayable
		intent.Currency = "usd"
		if err := bk.AttachIntent(intent); err != nil {
			return nil, err
		}
	}
	return bk, nil
}

func (b *BookingBuilder) MustBuildPending() *booking.Booking {
	bk, err := b.BuildPending()
	if err != nil {
		panic(err)
	}
	return bk
}

// BuildWithStatus rehydrates a booking already in the given state.
func (b *BookingBuilder) BuildWithStatus(status booking.Status) *booking.Booking {
	pending := b.MustBuildPending()
	var paidAt *time.Time
	var reason *booking.FailureReason
	switch status {
	case booking.StatusSuccess:
		t := b.CreatedAt.Add(time.Minute)
		paidAt = &t
	case booking.StatusFailed:
		r := booking.FailureSlotTaken
		reason = &r
	}
	return booking.ReconstructBooking(booking.ReconstructParams{
		ID:            pending.ID(),
		ResourceID:    pending.ResourceID(),
		OwnerID:       pending.OwnerID(),
		Slot:          pending.Slot(),
		CustomerID:    pending.CustomerID(),
		Interval:      pending.Interval(),
		Status:        status,
		Method:        pending.Method(),
		Quote:         pending.Quote(),
		Intent:        pending.Intent(),
		CouponCode:    pending.CouponCode(),
		VehicleID:     pending.VehicleID(),
		FailureReason: reason,
		PaidAt:        paidAt,
		CreatedAt:     pending.CreatedAt(),
		UpdatedAt:     pending.UpdatedAt(),
	})
}

func (b *BookingBuilder) BuildCheckoutRequestDTO() reqdto.CheckoutRequest {
	return reqdto.CheckoutRequest{
		ResourceID:    b.ResourceID,
		Zone:          b.Slot.Zone().String(),
		Numeral:       b.Slot.Numeral(),
		From:          b.From,
		To:            b.To,
		PaymentMethod: b.Method.String(),
		CouponCode:    b.CouponCode,
		VehicleID:     b.VehicleID,
	}
}

func (b *BookingBuilder) BuildCheckoutResult() *commands.CheckoutResult {
	bk := b.MustBuildPending()
	res := &commands.CheckoutResult{
		BookingID:     bk.ID(),
		Status:        bk.Status(),
		PaymentMethod: bk.Method(),
		Slot:          bk.Slot(),
		Interval:      bk.Interval(),
		Quote:         bk.Quote(),
		Currency:      "usd",
	}
	if b.Method.UsesGateway() {
		intentID, secret := "pi_test", "pi_test_secret"
		res.IntentID, res.ClientSecret = &intentID, &secret
	}
	return res
}

func (b *BookingBuilder) BuildView(status booking.Status) *queries.BookingView {
	bk := b.BuildWithStatus(status)
	q := bk.Quote()
	view := &queries.BookingView{
		ID:                  bk.ID(),
		ResourceID:          bk.ResourceID(),
		ResourceName:        "Central Car Park",
		ResourceKind:        "GARAGE",
		OwnerID:             bk.OwnerID(),
		CustomerID:          bk.CustomerID(),
		SlotID:              bk.Slot().String(),
		From:                bk.Interval().From(),
		To:                  bk.Interval().To(),
		Status:              bk.Status().String(),
		PaymentMethod:       bk.Method().String(),
		HourlyRateCents:     q.HourlyRate.Cents(),
		BaseAmountCents:     q.BaseAmount.Cents(),
		PlatformChargeCents: q.PlatformCharge.Cents(),
		DiscountCents:       q.Discount.Cents(),
		AmountPayableCents:  q.AmountPayable.Cents(),
		CouponCode:          bk.CouponCode(),
		VehicleID:           bk.VehicleID(),
		PaidAt:              bk.PaidAt(),
		CreatedAt:           bk.CreatedAt(),
		UpdatedAt:           bk.UpdatedAt(),
	}
	if intent := bk.Intent(); intent != nil {
		view.IntentID = &intent.ID
	}
	if reason := bk.FailureReason(); reason != nil {
		r := string(*reason)
		view.FailureReason = &r
	}
	return view
}

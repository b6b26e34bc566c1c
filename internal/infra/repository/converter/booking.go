package converter

import (
	"fmt"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func BookingToCreateParams(b *booking.Booking) query.CreateBookingParams {
	q := b.Quote()
	params := query.CreateBookingParams{
		ID:                  b.ID(),
		ResourceID:          b.ResourceID(),
		OwnerID:             b.OwnerID(),
		SlotID:              b.Slot().String(),
		CustomerID:          b.CustomerID(),
		StartsAt:            pgconv.TimeToPgtype(b.Interval().From()),
		EndsAt:              pgconv.TimeToPgtype(b.Interval().To()),
		PaymentStatus:       b.Status().String(),
		PaymentMethod:       b.Method().String(),
		HourlyRateCents:     q.HourlyRate.Cents(),
		BaseAmountCents:     q.BaseAmount.Cents(),
		PlatformChargeCents: q.PlatformCharge.Cents(),
		DiscountCents:       q.Discount.Cents(),
		AmountPayableCents:  q.AmountPayable.Cents(),
		CouponCode:          pgconv.StringPtrToPgtype(b.CouponCode()),
		VehicleID:           pgconv.StringPtrToPgtype(b.VehicleID()),
		CreatedAt:           pgconv.TimeToPgtype(b.CreatedAt()),
	}

	if intent := b.Intent(); intent != nil {
		params.IntentID = pgconv.NonEmptyToPgtype(intent.ID)
		params.IntentClientSecret = pgconv.NonEmptyToPgtype(intent.ClientSecret)
		params.IntentAmountCents = pgtype.Int8{Int64: intent.Amount.Cents(), Valid: true}
		params.IntentCurrency = pgconv.NonEmptyToPgtype(intent.Currency)
	}

	return params
}

func BookingToTransitionParams(b *booking.Booking) query.TransitionBookingStatusParams {
	params := query.TransitionBookingStatusParams{
		ID:            b.ID(),
		PaymentStatus: b.Status().String(),
		PaidAt:        pgconv.TimePtrToPgtype(b.PaidAt()),
		UpdatedAt:     pgconv.TimeToPgtype(b.UpdatedAt()),
	}
	if reason := b.FailureReason(); reason != nil {
		params.FailureReason = pgconv.StringToPgtype(string(*reason))
	}
	if ev := b.Evidence(); ev != nil {
		params.EvidenceImageRef = pgconv.NonEmptyToPgtype(ev.VehiclePlateImageRef)
		params.EvidenceNote = pgconv.NonEmptyToPgtype(ev.Note)
	}
	return params
}

func BookingFromRow(row query.Booking) (*booking.Booking, error) {
	slot, err := booking.ParseSlotID(row.SlotID)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", row.ID, err)
	}
	status, err := booking.NewStatus(row.PaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", row.ID, err)
	}
	method, err := booking.NewPaymentMethod(row.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", row.ID, err)
	}

	interval := booking.ReconstructInterval(pgconv.TimeFromPgtype(row.StartsAt), pgconv.TimeFromPgtype(row.EndsAt))

	p := booking.ReconstructParams{
		ID:         row.ID,
		ResourceID: row.ResourceID,
		OwnerID:    row.OwnerID,
		Slot:       slot,
		CustomerID: row.CustomerID,
		Interval:   interval,
		Status:     status,
		Method:     method,
		Quote:      quoteFromRow(row, interval),
		CouponCode: pgconv.StringPtrFromPgtype(row.CouponCode),
		VehicleID:  pgconv.StringPtrFromPgtype(row.VehicleID),
		PaidAt:     pgconv.TimePtrFromPgtype(row.PaidAt),
		CreatedAt:  pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:  pgconv.TimeFromPgtype(row.UpdatedAt),
	}

	if row.IntentID.Valid {
		intent := &booking.PaymentIntent{
			ID:           row.IntentID.String,
			ClientSecret: row.IntentClientSecret.String,
			Currency:     row.IntentCurrency.String,
		}
		if row.IntentAmountCents.Valid {
			intent.Amount = cents(row.IntentAmountCents.Int64)
		}
		p.Intent = intent
	}
	if row.EvidenceImageRef.Valid || row.EvidenceNote.Valid {
		p.Evidence = &booking.Evidence{
			VehiclePlateImageRef: row.EvidenceImageRef.String,
			Note:                 row.EvidenceNote.String,
		}
	}
	if row.FailureReason.Valid {
		reason := booking.FailureReason(row.FailureReason.String)
		p.FailureReason = &reason
	}

	return booking.ReconstructBooking(p), nil
}

func quoteFromRow(row query.Booking, interval booking.Interval) booking.Quote {
	return booking.Quote{
		HourlyRate:     cents(row.HourlyRateCents),
		Hours:          decimal.NewFromInt(int64(interval.Duration())).Div(decimal.NewFromInt(int64(time.Hour))),
		BaseAmount:     cents(row.BaseAmountCents),
		PlatformCharge: cents(row.PlatformChargeCents),
		Discount:       cents(row.DiscountCents),
		AmountPayable:  cents(row.AmountPayableCents),
	}
}

// cents trusts stored amounts; the schema never holds negative values.
func cents(v int64) booking.Money {
	m, err := booking.NewMoney(v)
	if err != nil {
		return booking.Money{}
	}
	return m
}

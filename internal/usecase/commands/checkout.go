package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/domain/coupon"
	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("slot-reservation-engine/usecase/commands")

// Settings carries the configuration the booking commands depend on.
type Settings struct {
	Currency    string
	PendingTTL  time.Duration
	ReaperBatch int32
}

type CheckoutInput struct {
	ResourceID     uuid.UUID
	Zone           string
	Numeral        int
	From           time.Time
	To             time.Time
	PaymentMethod  string
	CouponCode     *string
	VehicleID      *string
	Customer       user.Principal
	IdempotencyKey *uuid.UUID
}

type CheckoutResult struct {
	BookingID     uuid.UUID
	Status        booking.Status
	PaymentMethod booking.PaymentMethod
	Slot          booking.SlotID
	Interval      booking.Interval
	Quote         booking.Quote
	Currency      string
	IntentID      *string
	ClientSecret  *string
	Replayed      bool
}

type CheckoutCommands interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
}

type checkoutUseCaseImpl struct {
	uow      shared.UnitOfWork
	catalog  shared.ResourceCatalog
	gateway  PaymentGateway
	pricer   booking.PriceCalculator
	clock    clock.Clock
	settings Settings
}

func NewCheckoutUseCase(
	uow shared.UnitOfWork,
	catalog shared.ResourceCatalog,
	gateway PaymentGateway,
	pricer booking.PriceCalculator,
	clk clock.Clock,
	settings Settings,
) CheckoutCommands {
	return &checkoutUseCaseImpl{
		uow:      uow,
		catalog:  catalog,
		gateway:  gateway,
		pricer:   pricer,
		clock:    clk,
		settings: settings,
	}
}

func (uc *checkoutUseCaseImpl) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	ctx, span := tracer.Start(ctx, "commands.Checkout", trace.WithAttributes(
		attribute.String("resource.id", in.ResourceID.String()),
		attribute.String("payment.method", in.PaymentMethod),
	))
	defer span.End()

	result, err := uc.checkoutIdempotent(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errs.CategoryOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.id", result.BookingID.String()))
	return result, nil
}

func (uc *checkoutUseCaseImpl) checkout(ctx context.Context, in CheckoutInput, claim *shared.IdempotencyClaim) (*CheckoutResult, error) {
	interval, err := booking.NewInterval(in.From, in.To)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}
	method, err := booking.NewPaymentMethod(strings.ToUpper(strings.TrimSpace(in.PaymentMethod)))
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPaymentMethod)
	}

	res, err := uc.catalog.ResourceByID(ctx, in.ResourceID)
	if err != nil {
		return nil, storeErr(err, ErrResourceNotFound)
	}

	zoneCode, err := booking.NewZoneCode(in.Zone)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSlot)
	}
	slot, zone, err := res.ResolveSlot(zoneCode, in.Numeral)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSlot)
	}

	taken, err := uc.uow.CommandReads().HasOverlap(ctx, shared.OverlapQuery{
		ResourceID: res.ID(),
		Slot:       slot,
		Interval:   interval,
		Statuses:   []booking.Status{booking.StatusSuccess},
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if taken {
		return nil, ErrSlotNotAvailable
	}

	couponApp, err := uc.resolveCoupon(ctx, in.CouponCode)
	if err != nil {
		return nil, err
	}

	quote, err := uc.pricer.Calculate(zone.HourlyRate(), interval, couponApp)
	if err != nil {
		return nil, errs.Mark(err, ErrPricing)
	}

	var couponCode *string
	if couponApp != nil {
		couponCode = &couponApp.Code
	}

	bk, err := booking.NewPendingBooking(booking.NewBookingParams{
		ResourceID: res.ID(),
		OwnerID:    res.OwnerID(),
		Slot:       slot,
		CustomerID: in.Customer.ID,
		Interval:   interval,
		Method:     method,
		Quote:      quote,
		CouponCode: couponCode,
		VehicleID:  in.VehicleID,
	}, uc.clock.Now())
	if err != nil {
		return nil, errs.WithCategory(err, errs.CategoryValidation)
	}

	if method.UsesGateway() {
		if err := uc.openIntent(ctx, bk, in.Customer); err != nil {
			return nil, err
		}
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Create(ctx, bk); err != nil {
			return err
		}
		if claim == nil {
			return nil
		}
		return tx.Idempotency().UpdateStatusCompleted(ctx, claim.Key, claim.CustomerID, bk.ID())
	})
	if err != nil {
		if intent := bk.Intent(); intent != nil {
			uc.compensate(ctx, bk.ID(), intent.ID)
		}
		return nil, storeErr(err, nil)
	}

	slog.InfoContext(ctx, "booking checked out",
		"booking_id", bk.ID().String(),
		"resource_id", res.ID().String(),
		"slot", slot.String(),
		"method", method.String(),
		"amount_payable", quote.AmountPayable.String())

	return toCheckoutResult(bk, uc.settings.Currency), nil
}

func (uc *checkoutUseCaseImpl) resolveCoupon(ctx context.Context, raw *string) (*booking.CouponApplication, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	code, err := coupon.NewCouponCode(*raw)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	snap, err := uc.uow.CommandReads().CouponByCode(ctx, code.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrInvalidCoupon)
		}
		return nil, storeErr(err, nil)
	}

	c, err := coupon.NewCoupon(snap.ID, snap.Code, snap.Rate, snap.Active, snap.ValidFrom, snap.ValidTo)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}
	if err := c.ValidateUsage(uc.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}
	return c.Application(), nil
}

// openIntent upserts the payer and opens an intent keyed by the booking id.
func (uc *checkoutUseCaseImpl) openIntent(ctx context.Context, bk *booking.Booking, customer user.Principal) error {
	payerID, err := uc.gateway.EnsurePayerIdentity(ctx, PayerProfile{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Name:       customer.Name,
	})
	if err != nil {
		return errs.Mark(err, ErrGatewayUnavailable)
	}

	opened, err := uc.gateway.OpenIntent(ctx, OpenIntentParams{
		Amount:         bk.Quote().AmountPayable,
		Currency:       uc.settings.Currency,
		PayerID:        payerID,
		IdempotencyKey: bk.ID().String(),
		Metadata: map[string]string{
			"booking_id":  bk.ID().String(),
			"resource_id": bk.ResourceID().String(),
			"slot_id":     bk.Slot().String(),
		},
	})
	if err != nil {
		return errs.Mark(err, ErrGatewayUnavailable)
	}

	return bk.AttachIntent(booking.PaymentIntent{
		ID:           opened.ID,
		ClientSecret: opened.ClientSecret,
		Amount:       bk.Quote().AmountPayable,
		Currency:     uc.settings.Currency,
	})
}

// compensate cancels an intent whose booking could not be stored. Failures are only logged.
func (uc *checkoutUseCaseImpl) compensate(ctx context.Context, bookingID uuid.UUID, intentID string) {
	if err := uc.gateway.CancelIntent(context.WithoutCancel(ctx), intentID); err != nil {
		slog.WarnContext(ctx, "failed to cancel orphaned payment intent",
			"booking_id", bookingID.String(),
			"intent_id", intentID,
			"error", err.Error())
	}
}

func toCheckoutResult(bk *booking.Booking, currency string) *CheckoutResult {
	result := &CheckoutResult{
		BookingID:     bk.ID(),
		Status:        bk.Status(),
		PaymentMethod: bk.Method(),
		Slot:          bk.Slot(),
		Interval:      bk.Interval(),
		Quote:         bk.Quote(),
		Currency:      currency,
	}
	if intent := bk.Intent(); intent != nil {
		result.IntentID = &intent.ID
		result.ClientSecret = &intent.ClientSecret
	}
	return result
}

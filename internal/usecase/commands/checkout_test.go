//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/shared"
	"slot-reservation-engine/tests/common/builder"
	"slot-reservation-engine/tests/common/fakestore"
	commandsmock "slot-reservation-engine/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	checkoutNow = time.Date(2030, 1, 6, 12, 0, 0, 0, time.UTC)
	slotFrom    = time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	slotTo      = slotFrom.Add(2 * time.Hour)
)

func testSettings() commands.Settings {
	return commands.Settings{
		Currency:    "usd",
		PendingTTL:  30 * time.Minute,
		ReaperBatch: 50,
	}
}

type checkoutFixture struct {
	store    *fakestore.Store
	gateway  *commandsmock.MockPaymentGateway
	clock    *clock.MockClock
	resource *resource.BookableResource
	customer user.Principal
	uc       commands.CheckoutCommands
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := fakestore.New()
	res := builder.NewResourceBuilder().MustBuildDomain()
	store.PutResource(res)

	pricer, err := booking.NewDefaultPriceCalculator(booking.DefaultPlatformRate)
	require.NoError(t, err)

	f := &checkoutFixture{
		store:    store,
		gateway:  commandsmock.NewMockPaymentGateway(ctrl),
		clock:    clock.NewMockClock(checkoutNow),
		resource: res,
		customer: user.Principal{ID: uuid.New(), Role: user.RoleCustomer, Email: "driver@example.com", Name: "Driver"},
	}
	f.uc = commands.NewCheckoutUseCase(store, store, f.gateway, pricer, f.clock, testSettings())
	return f
}

func (f *checkoutFixture) input(method string) commands.CheckoutInput {
	return commands.CheckoutInput{
		ResourceID:    f.resource.ID(),
		Zone:          "A",
		Numeral:       1,
		From:          slotFrom,
		To:            slotTo,
		PaymentMethod: method,
		Customer:      f.customer,
	}
}

func (f *checkoutFixture) confirmedOn(from, to time.Time) *booking.Booking {
	b := builder.NewBookingBuilder().
		ForResource(f.resource.ID(), f.resource.OwnerID()).
		WithInterval(from, to).
		BuildWithStatus(booking.StatusSuccess)
	f.store.PutBooking(b)
	return b
}

func TestCheckout_Card(t *testing.T) {
	t.Run("opens an intent keyed by the booking and stores a pending booking", func(t *testing.T) {
		f := newCheckoutFixture(t)

		var opened commands.OpenIntentParams
		f.gateway.EXPECT().
			EnsurePayerIdentity(gomock.Any(), commands.PayerProfile{CustomerID: f.customer.ID, Email: f.customer.Email, Name: f.customer.Name}).
			Return("cus_1", nil)
		f.gateway.EXPECT().OpenIntent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p commands.OpenIntentParams) (*commands.OpenedIntent, error) {
				opened = p
				return &commands.OpenedIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
			})

		actual, err := f.uc.Checkout(context.Background(), f.input(" card "))
		require.NoError(t, err)

		assert.Equal(t, booking.StatusPending, actual.Status)
		assert.Equal(t, booking.PaymentMethodCard, actual.PaymentMethod)
		assert.Equal(t, "A 001", actual.Slot.String())
		assert.Equal(t, int64(22000), actual.Quote.AmountPayable.Cents())
		assert.Equal(t, "usd", actual.Currency)
		require.NotNil(t, actual.IntentID)
		assert.Equal(t, "pi_1", *actual.IntentID)
		require.NotNil(t, actual.ClientSecret)
		assert.Equal(t, "pi_1_secret", *actual.ClientSecret)

		assert.Equal(t, int64(22000), opened.Amount.Cents())
		assert.Equal(t, "cus_1", opened.PayerID)
		assert.Equal(t, actual.BookingID.String(), opened.IdempotencyKey)
		assert.Equal(t, "A 001", opened.Metadata["slot_id"])

		stored := f.store.Booking(actual.BookingID)
		require.NotNil(t, stored)
		assert.Equal(t, booking.StatusPending, stored.Status())
		assert.Equal(t, checkoutNow, stored.CreatedAt())
		require.NotNil(t, stored.Intent())
		assert.Equal(t, "pi_1", stored.Intent().ID)
		assert.Empty(t, f.store.Outbox())
	})

	t.Run("gateway failure stores nothing", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.gateway.EXPECT().EnsurePayerIdentity(gomock.Any(), gomock.Any()).Return("cus_1", nil)
		f.gateway.EXPECT().OpenIntent(gomock.Any(), gomock.Any()).Return(nil, errors.New("503 from gateway"))

		actual, err := f.uc.Checkout(context.Background(), f.input("CARD"))
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, commands.ErrGatewayUnavailable), "got %v", err)
		assert.Equal(t, errs.CategoryGatewayUnavailable, errs.CategoryOf(err))
		assert.Empty(t, f.store.Bookings())
	})

	t.Run("store failure cancels the orphaned intent", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.store.FailNext(fakestore.OpCreate, errors.New("connection reset by peer"))

		f.gateway.EXPECT().EnsurePayerIdentity(gomock.Any(), gomock.Any()).Return("cus_1", nil)
		f.gateway.EXPECT().OpenIntent(gomock.Any(), gomock.Any()).
			Return(&commands.OpenedIntent{ID: "pi_orphan", ClientSecret: "s"}, nil)
		f.gateway.EXPECT().CancelIntent(gomock.Any(), "pi_orphan").Return(nil)

		actual, err := f.uc.Checkout(context.Background(), f.input("CARD"))
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, commands.ErrStoreFailure), "got %v", err)
		assert.Equal(t, errs.CategoryTransientStore, errs.CategoryOf(err))
		assert.Empty(t, f.store.Bookings())
	})
}

func TestCheckout_Cash(t *testing.T) {
	f := newCheckoutFixture(t)

	actual, err := f.uc.Checkout(context.Background(), f.input("CASH"))
	require.NoError(t, err)

	assert.Equal(t, booking.StatusPending, actual.Status)
	assert.Equal(t, booking.PaymentMethodCash, actual.PaymentMethod)
	assert.Nil(t, actual.IntentID)
	assert.Nil(t, actual.ClientSecret)
	require.NotNil(t, f.store.Booking(actual.BookingID))
}

func TestCheckout_Availability(t *testing.T) {
	testCases := []struct {
		name      string
		seed      func(f *checkoutFixture)
		wantTaken bool
	}{
		{
			name:      "overlapping confirmed booking blocks",
			seed:      func(f *checkoutFixture) { f.confirmedOn(slotFrom.Add(time.Hour), slotTo.Add(time.Hour)) },
			wantTaken: true,
		},
		{
			name: "adjacent confirmed booking does not block",
			seed: func(f *checkoutFixture) { f.confirmedOn(slotTo, slotTo.Add(time.Hour)) },
		},
		{
			name: "pending booking on the same slot does not block",
			seed: func(f *checkoutFixture) {
				f.store.PutBooking(builder.NewBookingBuilder().
					ForResource(f.resource.ID(), f.resource.OwnerID()).
					WithMethod(booking.PaymentMethodCash).
					MustBuildPending())
			},
		},
		{
			name: "confirmed booking on another slot does not block",
			seed: func(f *checkoutFixture) {
				f.store.PutBooking(builder.NewBookingBuilder().
					ForResource(f.resource.ID(), f.resource.OwnerID()).
					WithSlot("A", 2).
					BuildWithStatus(booking.StatusSuccess))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			tc.seed(f)

			actual, err := f.uc.Checkout(context.Background(), f.input("CASH"))
			if tc.wantTaken {
				assert.Nil(t, actual)
				assert.True(t, errs.Is(err, commands.ErrSlotNotAvailable), "got %v", err)
				assert.Equal(t, errs.CategoryConflict, errs.CategoryOf(err))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, actual)
		})
	}
}

func TestCheckout_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(in *commands.CheckoutInput)
		errIs  error
	}{
		{name: "empty interval", mutate: func(in *commands.CheckoutInput) { in.To = in.From }, errIs: commands.ErrInvalidInterval},
		{name: "reversed interval", mutate: func(in *commands.CheckoutInput) { in.From, in.To = in.To, in.From }, errIs: commands.ErrInvalidInterval},
		{name: "unknown payment method", mutate: func(in *commands.CheckoutInput) { in.PaymentMethod = "CHEQUE" }, errIs: commands.ErrInvalidPaymentMethod},
		{name: "unknown resource", mutate: func(in *commands.CheckoutInput) { in.ResourceID = uuid.New() }, errIs: commands.ErrResourceNotFound},
		{name: "unknown zone", mutate: func(in *commands.CheckoutInput) { in.Zone = "Z" }, errIs: commands.ErrInvalidSlot},
		{name: "numeral beyond zone capacity", mutate: func(in *commands.CheckoutInput) { in.Numeral = 3 }, errIs: commands.ErrInvalidSlot},
		{name: "zero numeral", mutate: func(in *commands.CheckoutInput) { in.Numeral = 0 }, errIs: commands.ErrInvalidSlot},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			in := f.input("CARD")
			tc.mutate(&in)

			actual, err := f.uc.Checkout(context.Background(), in)
			assert.Nil(t, actual)
			assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
			assert.Empty(t, f.store.Bookings())
		})
	}
}

func TestCheckout_Coupon(t *testing.T) {
	past := checkoutNow.Add(-24 * time.Hour)

	testCases := []struct {
		name        string
		code        string
		coupon      *shared.CouponSnapshot
		wantPayable int64
		errIs       error
	}{
		{
			name:        "active coupon discounts the base amount",
			code:        " save10 ",
			coupon:      &shared.CouponSnapshot{ID: uuid.New(), Code: "SAVE10", Rate: decimal.RequireFromString("0.10"), Active: true},
			wantPayable: 20000,
		},
		{
			name:  "unknown coupon",
			code:  "NOPE",
			errIs: commands.ErrInvalidCoupon,
		},
		{
			name:   "inactive coupon",
			code:   "SAVE10",
			coupon: &shared.CouponSnapshot{ID: uuid.New(), Code: "SAVE10", Rate: decimal.RequireFromString("0.10"), Active: false},
			errIs:  commands.ErrInvalidCoupon,
		},
		{
			name:   "expired coupon",
			code:   "SAVE10",
			coupon: &shared.CouponSnapshot{ID: uuid.New(), Code: "SAVE10", Rate: decimal.RequireFromString("0.10"), Active: true, ValidTo: &past},
			errIs:  commands.ErrInvalidCoupon,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			if tc.coupon != nil {
				f.store.PutCoupon(*tc.coupon)
			}
			in := f.input("CASH")
			in.CouponCode = &tc.code

			actual, err := f.uc.Checkout(context.Background(), in)
			if tc.errIs != nil {
				assert.Nil(t, actual)
				assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
				assert.Equal(t, errs.CategoryValidation, errs.CategoryOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPayable, actual.Quote.AmountPayable.Cents())

			stored := f.store.Booking(actual.BookingID)
			require.NotNil(t, stored.CouponCode())
			assert.Equal(t, "SAVE10", *stored.CouponCode())
		})
	}
}

func TestCheckout_Idempotency(t *testing.T) {
	opened := &commands.OpenedIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}

	t.Run("retry with the same key replays the first booking", func(t *testing.T) {
		f := newCheckoutFixture(t)
		key := uuid.New()
		f.gateway.EXPECT().EnsurePayerIdentity(gomock.Any(), gomock.Any()).Return("cus_1", nil).Times(1)
		f.gateway.EXPECT().OpenIntent(gomock.Any(), gomock.Any()).Return(opened, nil).Times(1)

		in := f.input("CARD")
		in.IdempotencyKey = &key
		first, err := f.uc.Checkout(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, first.Replayed)

		retry := f.input(" card ")
		retry.Zone = "a"
		retry.IdempotencyKey = &key
		second, err := f.uc.Checkout(context.Background(), retry)
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.BookingID, second.BookingID)
		require.NotNil(t, second.ClientSecret)
		assert.Equal(t, "pi_1_secret", *second.ClientSecret)
		assert.Len(t, f.store.Bookings(), 1)

		rec := f.store.IdempotencyRecord(key, f.customer.ID)
		require.NotNil(t, rec)
		assert.Equal(t, shared.IdempotencyStatusCompleted, rec.Status)
		require.NotNil(t, rec.ResultBookingID)
		assert.Equal(t, first.BookingID, *rec.ResultBookingID)
		assert.Equal(t, checkoutNow.Add(24*time.Hour), rec.ExpiresAt)
	})

	t.Run("same key with a different request is rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)
		key := uuid.New()

		in := f.input("CASH")
		in.IdempotencyKey = &key
		_, err := f.uc.Checkout(context.Background(), in)
		require.NoError(t, err)

		in.Numeral = 2
		actual, err := f.uc.Checkout(context.Background(), in)
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, commands.ErrIdempotencyKeyReused), "got %v", err)
		assert.Equal(t, errs.CategoryConflict, errs.CategoryOf(err))
		assert.Len(t, f.store.Bookings(), 1)
	})

	t.Run("keys are scoped per customer", func(t *testing.T) {
		f := newCheckoutFixture(t)
		key := uuid.New()

		in := f.input("CASH")
		in.IdempotencyKey = &key
		first, err := f.uc.Checkout(context.Background(), in)
		require.NoError(t, err)

		in.Customer = user.Principal{ID: uuid.New(), Role: user.RoleCustomer}
		second, err := f.uc.Checkout(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, second.Replayed)
		assert.NotEqual(t, first.BookingID, second.BookingID)
	})

	t.Run("retry while the first request runs is told to wait", func(t *testing.T) {
		f := newCheckoutFixture(t)
		key := uuid.New()
		in := f.input("CARD")
		in.IdempotencyKey = &key

		var concurrentErr error
		f.gateway.EXPECT().EnsurePayerIdentity(gomock.Any(), gomock.Any()).Return("cus_1", nil).Times(1)
		f.gateway.EXPECT().OpenIntent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ commands.OpenIntentParams) (*commands.OpenedIntent, error) {
				_, concurrentErr = f.uc.Checkout(ctx, in)
				return opened, nil
			}).Times(1)

		_, err := f.uc.Checkout(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, errs.Is(concurrentErr, commands.ErrIdempotencyInProgress), "got %v", concurrentErr)
		assert.Len(t, f.store.Bookings(), 1)
	})

	t.Run("failed checkout releases the key for a retry", func(t *testing.T) {
		f := newCheckoutFixture(t)
		key := uuid.New()
		in := f.input("CARD")
		in.IdempotencyKey = &key

		gomock.InOrder(
			f.gateway.EXPECT().EnsurePayerIdentity(gomock.Any(), gomock.Any()).Return("", errors.New("gateway timeout")),
			f.gateway.EXPECT().EnsurePayerIdentity(gomock.Any(), gomock.Any()).Return("cus_1", nil),
		)
		f.gateway.EXPECT().OpenIntent(gomock.Any(), gomock.Any()).Return(opened, nil).Times(1)

		_, err := f.uc.Checkout(context.Background(), in)
		assert.True(t, errs.Is(err, commands.ErrGatewayUnavailable), "got %v", err)
		assert.Nil(t, f.store.IdempotencyRecord(key, f.customer.ID))

		actual, err := f.uc.Checkout(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, actual.Replayed)
		assert.Len(t, f.store.Bookings(), 1)
	})

	t.Run("expired key is taken over by a new request", func(t *testing.T) {
		f := newCheckoutFixture(t)
		key := uuid.New()
		stale := uuid.New()
		f.store.PutIdempotencyRecord(shared.IdempotencyRecord{
			Key:             key,
			CustomerID:      f.customer.ID,
			Status:          shared.IdempotencyStatusCompleted,
			RequestHash:     "from-yesterday",
			ResultBookingID: &stale,
			ExpiresAt:       checkoutNow.Add(-time.Minute),
		})

		in := f.input("CASH")
		in.IdempotencyKey = &key
		actual, err := f.uc.Checkout(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, actual.Replayed)

		rec := f.store.IdempotencyRecord(key, f.customer.ID)
		require.NotNil(t, rec.ResultBookingID)
		assert.Equal(t, actual.BookingID, *rec.ResultBookingID)
	})

	t.Run("key store failure is transient", func(t *testing.T) {
		f := newCheckoutFixture(t)
		key := uuid.New()
		f.store.FailNext(fakestore.OpIdempotency, errors.New("connection reset by peer"))

		in := f.input("CASH")
		in.IdempotencyKey = &key
		actual, err := f.uc.Checkout(context.Background(), in)
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, commands.ErrStoreFailure), "got %v", err)
		assert.Empty(t, f.store.Bookings())
	})
}

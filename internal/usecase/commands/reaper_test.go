//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/shared"
	"slot-reservation-engine/tests/common/builder"
	"slot-reservation-engine/tests/common/fakestore"
	commandsmock "slot-reservation-engine/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var reapNow = time.Date(2030, 1, 6, 12, 0, 0, 0, time.UTC)

func newReaper(t *testing.T) (*fakestore.Store, *commandsmock.MockPaymentGateway, commands.ReaperCommands) {
	t.Helper()
	store := fakestore.New()
	gateway := commandsmock.NewMockPaymentGateway(gomock.NewController(t))
	uc := commands.NewReaperUseCase(store, gateway, clock.NewMockClock(reapNow), testSettings())
	return store, gateway, uc
}

func createdAgo(d time.Duration) *builder.BookingBuilder {
	return builder.NewBookingBuilder().WithCreatedAt(reapNow.Add(-d))
}

func TestReapStale(t *testing.T) {
	t.Run("expires unpaid card booking and cancels its intent", func(t *testing.T) {
		store, gateway, uc := newReaper(t)
		b := createdAgo(31 * time.Minute).WithIntent("pi_1").MustBuildPending()
		store.PutBooking(b)

		gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").
			Return(&commands.IntentStatus{Status: "requires_payment_method"}, nil)
		gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1").Return(nil)

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, commands.ReapResult{Scanned: 1, Expired: 1}, *result)

		stored := store.Booking(b.ID())
		assert.Equal(t, booking.StatusFailed, stored.Status())
		assert.Equal(t, booking.FailureExpired, *stored.FailureReason())
		require.Len(t, store.Outbox(), 1)
		assert.Equal(t, shared.TopicBookingFailed, store.Outbox()[0].Topic)
	})

	t.Run("settling intents keep the booking pending", func(t *testing.T) {
		for _, status := range []string{commands.IntentStatusProcessing, commands.IntentStatusRequiresCapture} {
			t.Run(status, func(t *testing.T) {
				store, gateway, uc := newReaper(t)
				b := createdAgo(time.Hour).WithIntent("pi_1").MustBuildPending()
				store.PutBooking(b)

				gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(&commands.IntentStatus{Status: status}, nil)

				result, err := uc.ReapStale(context.Background())
				require.NoError(t, err)
				assert.Equal(t, commands.ReapResult{Scanned: 1, Skipped: 1}, *result)
				assert.Equal(t, booking.StatusPending, store.Booking(b.ID()).Status())
				assert.Empty(t, store.Outbox())
			})
		}
	})

	t.Run("already canceled intent expires without another cancel", func(t *testing.T) {
		store, gateway, uc := newReaper(t)
		b := createdAgo(time.Hour).WithIntent("pi_1").MustBuildPending()
		store.PutBooking(b)

		gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").
			Return(&commands.IntentStatus{Status: commands.IntentStatusCanceled}, nil)

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, commands.ReapResult{Scanned: 1, Expired: 1}, *result)
		assert.Equal(t, booking.StatusFailed, store.Booking(b.ID()).Status())
	})

	t.Run("cancel failure keeps the booking pending", func(t *testing.T) {
		store, gateway, uc := newReaper(t)
		b := createdAgo(time.Hour).WithIntent("pi_1").MustBuildPending()
		store.PutBooking(b)

		gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").
			Return(&commands.IntentStatus{Status: "requires_payment_method"}, nil)
		gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1").Return(errors.New("gateway 500"))

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, commands.ReapResult{Scanned: 1, Failed: 1}, *result)
		assert.Equal(t, booking.StatusPending, store.Booking(b.ID()).Status())
		assert.Empty(t, store.Outbox())
	})

	t.Run("intent paid between read and cancel is left for confirmation", func(t *testing.T) {
		store, gateway, uc := newReaper(t)
		b := createdAgo(time.Hour).WithIntent("pi_1").MustBuildPending()
		store.PutBooking(b)

		gomock.InOrder(
			gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").
				Return(&commands.IntentStatus{Status: "requires_action"}, nil),
			gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1").
				Return(errs.Mark(errors.New("unexpected state"), commands.ErrIntentNotCancelable)),
			gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(succeeded(22000), nil),
		)

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, commands.ReapResult{Scanned: 1, Skipped: 1}, *result)
		assert.Equal(t, booking.StatusPending, store.Booking(b.ID()).Status())
	})

	t.Run("intent canceled elsewhere between read and cancel expires", func(t *testing.T) {
		store, gateway, uc := newReaper(t)
		b := createdAgo(time.Hour).WithIntent("pi_1").MustBuildPending()
		store.PutBooking(b)

		gomock.InOrder(
			gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").
				Return(&commands.IntentStatus{Status: "requires_payment_method"}, nil),
			gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1").
				Return(errs.Mark(errors.New("unexpected state"), commands.ErrIntentNotCancelable)),
			gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").
				Return(&commands.IntentStatus{Status: commands.IntentStatusCanceled}, nil),
		)

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Expired)
		assert.Equal(t, booking.StatusFailed, store.Booking(b.ID()).Status())
	})

	t.Run("paid but unconfirmed booking is left for confirmation", func(t *testing.T) {
		store, gateway, uc := newReaper(t)
		b := createdAgo(time.Hour).WithIntent("pi_paid").MustBuildPending()
		store.PutBooking(b)

		gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_paid").Return(succeeded(22000), nil)

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, commands.ReapResult{Scanned: 1, Skipped: 1}, *result)
		assert.Equal(t, booking.StatusPending, store.Booking(b.ID()).Status())
		assert.Empty(t, store.Outbox())
	})

	t.Run("cash booking expires without the gateway", func(t *testing.T) {
		store, _, uc := newReaper(t)
		b := createdAgo(time.Hour).WithMethod(booking.PaymentMethodCash).MustBuildPending()
		store.PutBooking(b)

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Expired)
		assert.Equal(t, booking.FailureExpired, *store.Booking(b.ID()).FailureReason())
	})

	t.Run("cutoff is inclusive and fresh or settled bookings are ignored", func(t *testing.T) {
		store, _, uc := newReaper(t)
		boundary := createdAgo(30 * time.Minute).WithMethod(booking.PaymentMethodCash).MustBuildPending()
		fresh := createdAgo(29 * time.Minute).WithMethod(booking.PaymentMethodCash).MustBuildPending()
		settled := createdAgo(time.Hour).WithMethod(booking.PaymentMethodCash).BuildWithStatus(booking.StatusSuccess)
		for _, b := range []*booking.Booking{boundary, fresh, settled} {
			store.PutBooking(b)
		}

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, commands.ReapResult{Scanned: 1, Expired: 1}, *result)
		assert.Equal(t, booking.StatusFailed, store.Booking(boundary.ID()).Status())
		assert.Equal(t, booking.StatusPending, store.Booking(fresh.ID()).Status())
		assert.Equal(t, booking.StatusSuccess, store.Booking(settled.ID()).Status())
	})

	t.Run("gateway outage counts as failed and keeps the booking", func(t *testing.T) {
		store, gateway, uc := newReaper(t)
		b := createdAgo(time.Hour).WithIntent("pi_1").MustBuildPending()
		store.PutBooking(b)

		gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(nil, errors.New("connection refused"))

		result, err := uc.ReapStale(context.Background())
		require.NoError(t, err)
		assert.Equal(t, commands.ReapResult{Scanned: 1, Failed: 1}, *result)
		assert.Equal(t, booking.StatusPending, store.Booking(b.ID()).Status())
	})

	t.Run("store failure on scan", func(t *testing.T) {
		store, _, uc := newReaper(t)
		store.FailNext(fakestore.OpStalePending, errors.New("too many connections"))

		result, err := uc.ReapStale(context.Background())
		assert.Nil(t, result)
		assert.True(t, errs.Is(err, commands.ErrStoreFailure), "got %v", err)
	})
}

func TestReapStale_SettlingIntentStillConfirms(t *testing.T) {
	store, gateway, reaper := newReaper(t)
	b := createdAgo(time.Hour).WithIntent("pi_1").MustBuildPending()
	store.PutBooking(b)

	gomock.InOrder(
		gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").
			Return(&commands.IntentStatus{Status: commands.IntentStatusProcessing}, nil),
		gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(succeeded(22000), nil),
	)

	_, err := reaper.ReapStale(context.Background())
	require.NoError(t, err)

	confirm := commands.NewConfirmationUseCase(store, gateway, clock.NewMockClock(reapNow))
	actual, err := confirm.Confirm(context.Background(), commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusSuccess, actual.Status)
	assert.Equal(t, booking.StatusSuccess, store.Booking(b.ID()).Status())
}

// laggingStore hands back whatever pending bookings it holds, ignoring the cutoff.
type laggingStore struct {
	*fakestore.Store
	pending []*booking.Booking
}

func (s laggingStore) CommandReads() shared.CommandReads {
	return laggingReads{CommandReads: s.Store.CommandReads(), pending: s.pending}
}

type laggingReads struct {
	shared.CommandReads
	pending []*booking.Booking
}

func (r laggingReads) StalePending(context.Context, time.Time, int32) ([]*booking.Booking, error) {
	return r.pending, nil
}

func TestReapStale_FreshBookingFromStoreIsLeftAlone(t *testing.T) {
	store := fakestore.New()
	fresh := createdAgo(5 * time.Minute).WithIntent("pi_fresh").MustBuildPending()
	store.PutBooking(fresh)

	// no gateway expectations: a fresh booking must not touch its intent
	gateway := commandsmock.NewMockPaymentGateway(gomock.NewController(t))
	uc := commands.NewReaperUseCase(laggingStore{Store: store, pending: []*booking.Booking{fresh}},
		gateway, clock.NewMockClock(reapNow), testSettings())

	result, err := uc.ReapStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, commands.ReapResult{Scanned: 1, Skipped: 1}, *result)
	assert.Equal(t, booking.StatusPending, store.Booking(fresh.ID()).Status())
	assert.Empty(t, store.Outbox())
}

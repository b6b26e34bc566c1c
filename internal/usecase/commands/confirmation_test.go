//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/shared"
	"slot-reservation-engine/tests/common/builder"
	"slot-reservation-engine/tests/common/fakestore"
	commandsmock "slot-reservation-engine/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var confirmNow = time.Date(2030, 1, 6, 12, 30, 0, 0, time.UTC)

type confirmFixture struct {
	store      *fakestore.Store
	gateway    *commandsmock.MockPaymentGateway
	clock      *clock.MockClock
	resourceID uuid.UUID
	ownerID    uuid.UUID
	uc         commands.ConfirmationCommands
}

func newConfirmFixture(t *testing.T) *confirmFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &confirmFixture{
		store:      fakestore.New(),
		gateway:    commandsmock.NewMockPaymentGateway(ctrl),
		clock:      clock.NewMockClock(confirmNow),
		resourceID: uuid.New(),
		ownerID:    uuid.New(),
	}
	f.uc = commands.NewConfirmationUseCase(f.store, f.gateway, f.clock)
	return f
}

func (f *confirmFixture) bookingBuilder() *builder.BookingBuilder {
	return builder.NewBookingBuilder().ForResource(f.resourceID, f.ownerID)
}

func (f *confirmFixture) pendingCard(intentID string) *booking.Booking {
	b := f.bookingBuilder().WithIntent(intentID).MustBuildPending()
	f.store.PutBooking(b)
	return b
}

func (f *confirmFixture) pendingCash() *booking.Booking {
	b := f.bookingBuilder().WithMethod(booking.PaymentMethodCash).MustBuildPending()
	f.store.PutBooking(b)
	return b
}

func customerOf(b *booking.Booking) user.Principal {
	return user.Principal{ID: b.CustomerID(), Role: user.RoleCustomer}
}

func succeeded(cents int64) *commands.IntentStatus {
	return &commands.IntentStatus{Status: commands.IntentStatusSucceeded, Amount: cents, Currency: "USD"}
}

func decodeEvent(t *testing.T, rec fakestore.OutboxRecord) commands.BookingEvent {
	t.Helper()
	var ev commands.BookingEvent
	require.NoError(t, json.Unmarshal(rec.Payload, &ev))
	return ev
}

func TestConfirm_Success(t *testing.T) {
	f := newConfirmFixture(t)
	b := f.pendingCard("pi_1")
	evidence := &booking.Evidence{VehiclePlateImageRef: "s3://plates/1.jpg"}

	f.gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(succeeded(22000), nil)

	actual, err := f.uc.Confirm(context.Background(), commands.ConfirmInput{
		BookingID: b.ID(),
		Actor:     customerOf(b),
		Evidence:  evidence,
	})
	require.NoError(t, err)

	assert.Equal(t, booking.StatusSuccess, actual.Status)
	require.NotNil(t, actual.PaidAt)
	assert.Equal(t, confirmNow, *actual.PaidAt)
	assert.Nil(t, actual.FailureReason)

	stored := f.store.Booking(b.ID())
	assert.Equal(t, booking.StatusSuccess, stored.Status())
	assert.Equal(t, evidence, stored.Evidence())

	events := f.store.Outbox()
	require.Len(t, events, 1)
	assert.Equal(t, shared.TopicBookingConfirmed, events[0].Topic)
	assert.Equal(t, b.ID(), events[0].AggregateID)
	ev := decodeEvent(t, events[0])
	assert.Equal(t, "SUCCESS", ev.Status)
	assert.Equal(t, "A 001", ev.SlotID)
	assert.Equal(t, "220.00", ev.AmountPayable)
}

func TestConfirm_Rejections(t *testing.T) {
	testCases := []struct {
		name   string
		setup  func(f *confirmFixture) commands.ConfirmInput
		errIs  error
		status booking.Status
	}{
		{
			name: "unknown booking",
			setup: func(f *confirmFixture) commands.ConfirmInput {
				return commands.ConfirmInput{BookingID: uuid.New(), Actor: user.Principal{ID: uuid.New(), Role: user.RoleCustomer}}
			},
			errIs: commands.ErrBookingNotFound,
		},
		{
			name: "someone else's booking",
			setup: func(f *confirmFixture) commands.ConfirmInput {
				b := f.pendingCard("pi_1")
				return commands.ConfirmInput{BookingID: b.ID(), Actor: user.Principal{ID: uuid.New(), Role: user.RoleCustomer}}
			},
			errIs:  commands.ErrForbidden,
			status: booking.StatusPending,
		},
		{
			name: "cash booking on the card path",
			setup: func(f *confirmFixture) commands.ConfirmInput {
				b := f.pendingCash()
				return commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)}
			},
			errIs:  commands.ErrWrongConfirmationPath,
			status: booking.StatusPending,
		},
		{
			name: "already confirmed",
			setup: func(f *confirmFixture) commands.ConfirmInput {
				b := f.bookingBuilder().WithIntent("pi_1").BuildWithStatus(booking.StatusSuccess)
				f.store.PutBooking(b)
				return commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)}
			},
			errIs:  commands.ErrAlreadyConfirmed,
			status: booking.StatusSuccess,
		},
		{
			name: "already failed",
			setup: func(f *confirmFixture) commands.ConfirmInput {
				b := f.bookingBuilder().WithIntent("pi_1").BuildWithStatus(booking.StatusFailed)
				f.store.PutBooking(b)
				return commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)}
			},
			errIs:  commands.ErrBookingNotPending,
			status: booking.StatusFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newConfirmFixture(t)
			in := tc.setup(f)

			actual, err := f.uc.Confirm(context.Background(), in)
			assert.Nil(t, actual)
			assert.True(t, errs.Is(err, tc.errIs), "got %v", err)

			if tc.status != "" {
				assert.Equal(t, tc.status, f.store.Booking(in.BookingID).Status())
			}
			assert.Empty(t, f.store.Outbox())
		})
	}
}

func TestConfirm_GatewayVerdicts(t *testing.T) {
	testCases := []struct {
		name       string
		status     *commands.IntentStatus
		wantReason booking.FailureReason
	}{
		{
			name:       "intent not succeeded",
			status:     &commands.IntentStatus{Status: "requires_payment_method", Amount: 22000, Currency: "usd"},
			wantReason: booking.FailurePaymentUnsuccessful,
		},
		{
			name:       "amount differs from the quote",
			status:     succeeded(21999),
			wantReason: booking.FailureAmountMismatch,
		},
		{
			name:       "currency differs",
			status:     &commands.IntentStatus{Status: commands.IntentStatusSucceeded, Amount: 22000, Currency: "jpy"},
			wantReason: booking.FailureAmountMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newConfirmFixture(t)
			b := f.pendingCard("pi_1")
			f.gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(tc.status, nil)

			actual, err := f.uc.Confirm(context.Background(), commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)})
			assert.Nil(t, actual)
			assert.True(t, errs.Is(err, commands.ErrUnsuccessfulTransaction), "got %v", err)
			assert.Equal(t, errs.CategoryPaymentMismatch, errs.CategoryOf(err))

			stored := f.store.Booking(b.ID())
			assert.Equal(t, booking.StatusFailed, stored.Status())
			require.NotNil(t, stored.FailureReason())
			assert.Equal(t, tc.wantReason, *stored.FailureReason())

			events := f.store.Outbox()
			require.Len(t, events, 1)
			assert.Equal(t, shared.TopicBookingFailed, events[0].Topic)
			ev := decodeEvent(t, events[0])
			require.NotNil(t, ev.FailureReason)
			assert.Equal(t, string(tc.wantReason), *ev.FailureReason)
		})
	}

	t.Run("gateway unreachable leaves the booking pending", func(t *testing.T) {
		f := newConfirmFixture(t)
		b := f.pendingCard("pi_1")
		f.gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(nil, errors.New("dial tcp: i/o timeout"))

		actual, err := f.uc.Confirm(context.Background(), commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)})
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, commands.ErrGatewayUnavailable), "got %v", err)
		assert.True(t, errs.Retryable(err))
		assert.Equal(t, booking.StatusPending, f.store.Booking(b.ID()).Status())
	})

	t.Run("admin may confirm on behalf of the customer", func(t *testing.T) {
		f := newConfirmFixture(t)
		b := f.pendingCard("pi_1")
		f.gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_1").Return(succeeded(22000), nil)

		actual, err := f.uc.Confirm(context.Background(), commands.ConfirmInput{
			BookingID: b.ID(),
			Actor:     user.Principal{ID: uuid.New(), Role: user.RoleAdmin},
		})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusSuccess, actual.Status)
	})
}

func TestConfirm_SlotContention(t *testing.T) {
	t.Run("slot already confirmed by another booking", func(t *testing.T) {
		f := newConfirmFixture(t)
		f.store.PutBooking(f.bookingBuilder().
			WithInterval(slotFrom.Add(time.Hour), slotTo.Add(time.Hour)).
			BuildWithStatus(booking.StatusSuccess))
		b := f.pendingCard("pi_2")
		f.gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_2").Return(succeeded(22000), nil)

		actual, err := f.uc.Confirm(context.Background(), commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)})
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, commands.ErrSlotNotAvailable), "got %v", err)

		stored := f.store.Booking(b.ID())
		assert.Equal(t, booking.StatusFailed, stored.Status())
		assert.Equal(t, booking.FailureSlotTaken, *stored.FailureReason())
	})

	t.Run("rival commits between check and commit", func(t *testing.T) {
		f := newConfirmFixture(t)
		b := f.pendingCard("pi_3")
		rival := f.bookingBuilder().BuildWithStatus(booking.StatusSuccess)
		f.store.BeforeCommit = func(s *fakestore.Store) {
			s.BeforeCommit = nil
			s.PutBooking(rival)
		}
		f.gateway.EXPECT().GetIntentStatus(gomock.Any(), "pi_3").Return(succeeded(22000), nil)

		actual, err := f.uc.Confirm(context.Background(), commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)})
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, commands.ErrSlotNotAvailable), "got %v", err)
		assert.Equal(t, errs.CategoryConflict, errs.CategoryOf(err))

		stored := f.store.Booking(b.ID())
		assert.Equal(t, booking.StatusFailed, stored.Status())
		assert.Equal(t, booking.FailureSlotTaken, *stored.FailureReason())
		assert.Equal(t, booking.StatusSuccess, f.store.Booking(rival.ID()).Status())
	})

	t.Run("concurrent confirmations for one slot admit exactly one", func(t *testing.T) {
		const contenders = 8
		f := newConfirmFixture(t)
		f.gateway.EXPECT().GetIntentStatus(gomock.Any(), gomock.Any()).Return(succeeded(22000), nil).Times(contenders)

		bookings := make([]*booking.Booking, contenders)
		for i := range bookings {
			bookings[i] = f.pendingCard("pi_race")
		}

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		start := make(chan struct{})
		for _, b := range bookings {
			wg.Add(1)
			go func(b *booking.Booking) {
				defer wg.Done()
				<-start
				_, err := f.uc.Confirm(context.Background(), commands.ConfirmInput{BookingID: b.ID(), Actor: customerOf(b)})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errs.Is(err, commands.ErrSlotNotAvailable):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(b)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, contenders-1, conflicts)

		var confirmed int
		for _, b := range f.store.Bookings() {
			switch b.Status() {
			case booking.StatusSuccess:
				confirmed++
			case booking.StatusFailed:
				assert.Equal(t, booking.FailureSlotTaken, *b.FailureReason())
			default:
				t.Errorf("booking %s left %s", b.ID(), b.Status())
			}
		}
		assert.Equal(t, 1, confirmed)
		assert.Len(t, f.store.Outbox(), contenders)
	})
}

func TestAttestCash(t *testing.T) {
	testCases := []struct {
		name  string
		actor func(f *confirmFixture, b *booking.Booking) user.Principal
		cash  bool
		errIs error
	}{
		{
			name:  "owning merchant",
			actor: func(f *confirmFixture, _ *booking.Booking) user.Principal { return user.Principal{ID: f.ownerID, Role: user.RoleMerchant} },
			cash:  true,
		},
		{
			name:  "admin",
			actor: func(*confirmFixture, *booking.Booking) user.Principal { return user.Principal{ID: uuid.New(), Role: user.RoleAdmin} },
			cash:  true,
		},
		{
			name:  "merchant of another resource",
			actor: func(*confirmFixture, *booking.Booking) user.Principal { return user.Principal{ID: uuid.New(), Role: user.RoleMerchant} },
			cash:  true,
			errIs: commands.ErrForbidden,
		},
		{
			name:  "the customer cannot attest their own cash",
			actor: func(_ *confirmFixture, b *booking.Booking) user.Principal { return customerOf(b) },
			cash:  true,
			errIs: commands.ErrForbidden,
		},
		{
			name:  "card booking on the cash path",
			actor: func(f *confirmFixture, _ *booking.Booking) user.Principal { return user.Principal{ID: f.ownerID, Role: user.RoleMerchant} },
			errIs: commands.ErrWrongConfirmationPath,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newConfirmFixture(t)
			var b *booking.Booking
			if tc.cash {
				b = f.pendingCash()
			} else {
				b = f.pendingCard("pi_1")
			}

			actual, err := f.uc.AttestCash(context.Background(), commands.ConfirmInput{BookingID: b.ID(), Actor: tc.actor(f, b)})
			if tc.errIs != nil {
				assert.Nil(t, actual)
				assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
				assert.Equal(t, booking.StatusPending, f.store.Booking(b.ID()).Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, booking.StatusSuccess, actual.Status)
			assert.Equal(t, booking.StatusSuccess, f.store.Booking(b.ID()).Status())
			require.Len(t, f.store.Outbox(), 1)
			assert.Equal(t, shared.TopicBookingConfirmed, f.store.Outbox()[0].Topic)
		})
	}
}

//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/infra/repository/converter"
	"slot-reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingWriteQueries struct {
	mock.Mock
}

func (m *MockBookingWriteQueries) CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockBookingWriteQueries) GetBookingByIDForUpdate(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Booking, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(query.Booking), args.Error(1)
}

func (m *MockBookingWriteQueries) TransitionBookingStatus(ctx context.Context, db query.DBTX, arg query.TransitionBookingStatusParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func TestBookingRepository_Create(t *testing.T) {
	bk := builder.NewBookingBuilder().WithIntent("pi_42").MustBuildPending()

	t.Run("maps the aggregate to insert params", func(t *testing.T) {
		mq := new(MockBookingWriteQueries)
		mq.On("CreateBooking", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.CreateBookingParams) bool {
			return p.ID == bk.ID() &&
				p.SlotID == "A 001" &&
				p.PaymentStatus == "PENDING" &&
				p.PaymentMethod == "CARD" &&
				p.AmountPayableCents == 22000 &&
				p.IntentID.Valid && p.IntentID.String == "pi_42" &&
				p.StartsAt.Time.Equal(bk.Interval().From())
		})).Return(nil)

		repo := NewBookingRepository(mq, nil)
		require.NoError(t, repo.Create(context.Background(), bk))
		mq.AssertExpectations(t)
	})

	t.Run("database error is wrapped", func(t *testing.T) {
		mq := new(MockBookingWriteQueries)
		mq.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		repo := NewBookingRepository(mq, nil)
		err := repo.Create(context.Background(), bk)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestBookingRepository_LockByID(t *testing.T) {
	id := uuid.New()

	t.Run("not found", func(t *testing.T) {
		mq := new(MockBookingWriteQueries)
		mq.On("GetBookingByIDForUpdate", mock.Anything, mock.Anything, id).Return(query.Booking{}, pgx.ErrNoRows)

		repo := NewBookingRepository(mq, nil)
		_, err := repo.LockByID(context.Background(), id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("decodes row into aggregate", func(t *testing.T) {
		original := builder.NewBookingBuilder().WithIntent("pi_1").MustBuildPending()
		row := rowFromCreateParams(original)

		mq := new(MockBookingWriteQueries)
		mq.On("GetBookingByIDForUpdate", mock.Anything, mock.Anything, original.ID()).Return(row, nil)

		repo := NewBookingRepository(mq, nil)
		got, err := repo.LockByID(context.Background(), original.ID())
		require.NoError(t, err)

		assert.Equal(t, original.ID(), got.ID())
		assert.Equal(t, original.Slot(), got.Slot())
		assert.Equal(t, booking.StatusPending, got.Status())
		assert.Equal(t, original.Quote().AmountPayable, got.Quote().AmountPayable)
		assert.True(t, original.Quote().Hours.Equal(got.Quote().Hours))
		require.NotNil(t, got.Intent())
		assert.Equal(t, "pi_1", got.Intent().ID)
	})
}

func TestBookingRepository_Transition(t *testing.T) {
	now := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		affected   int64
		dbErr      error
		wantMoved  bool
		wantKind   infra.RepositoryErrorKind
		wantAnyErr bool
	}{
		{name: "row moved", affected: 1, wantMoved: true},
		{name: "row no longer pending", affected: 0, wantMoved: false},
		{name: "exclusion violation", dbErr: &pgconn.PgError{Code: "23P01"}, wantKind: infra.KindConflict, wantAnyErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bk := builder.NewBookingBuilder().MustBuildPending()
			require.NoError(t, bk.Confirm(now, &booking.Evidence{VehiclePlateImageRef: "img://1"}))

			mq := new(MockBookingWriteQueries)
			mq.On("TransitionBookingStatus", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.TransitionBookingStatusParams) bool {
				return p.ID == bk.ID() && p.PaymentStatus == "SUCCESS" && p.PaidAt.Valid && p.EvidenceImageRef.String == "img://1"
			})).Return(tc.affected, tc.dbErr)

			repo := NewBookingRepository(mq, nil)
			moved, err := repo.Transition(context.Background(), bk)
			if tc.wantAnyErr {
				assert.True(t, infra.IsKind(err, tc.wantKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMoved, moved)
		})
	}
}

func rowFromCreateParams(b *booking.Booking) query.Booking {
	p := converter.BookingToCreateParams(b)
	return query.Booking{
		ID:                  p.ID,
		ResourceID:          p.ResourceID,
		OwnerID:             p.OwnerID,
		SlotID:              p.SlotID,
		CustomerID:          p.CustomerID,
		StartsAt:            p.StartsAt,
		EndsAt:              p.EndsAt,
		PaymentStatus:       p.PaymentStatus,
		PaymentMethod:       p.PaymentMethod,
		HourlyRateCents:     p.HourlyRateCents,
		BaseAmountCents:     p.BaseAmountCents,
		PlatformChargeCents: p.PlatformChargeCents,
		DiscountCents:       p.DiscountCents,
		AmountPayableCents:  p.AmountPayableCents,
		IntentID:            p.IntentID,
		IntentClientSecret:  p.IntentClientSecret,
		IntentAmountCents:   p.IntentAmountCents,
		IntentCurrency:      p.IntentCurrency,
		CouponCode:          p.CouponCode,
		VehicleID:           p.VehicleID,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.CreatedAt,
	}
}

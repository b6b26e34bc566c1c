//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdempotencyWriteQueries struct {
	mock.Mock
}

func (m *MockIdempotencyWriteQueries) TryInsertIdempotencyKey(ctx context.Context, db query.DBTX, arg query.TryInsertIdempotencyKeyParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) ClaimExpiredIdempotencyKey(ctx context.Context, db query.DBTX, arg query.ClaimExpiredIdempotencyKeyParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) UpdateIdempotencyKeyCompleted(ctx context.Context, db query.DBTX, key, customerID uuid.UUID, resultBookingID pgtype.UUID) error {
	args := m.Called(ctx, db, key, customerID, resultBookingID)
	return args.Error(0)
}

func (m *MockIdempotencyWriteQueries) ReleaseIdempotencyKey(ctx context.Context, db query.DBTX, key, customerID uuid.UUID) error {
	args := m.Called(ctx, db, key, customerID)
	return args.Error(0)
}

func (m *MockIdempotencyWriteQueries) DeleteExpiredIdempotencyKeys(ctx context.Context, db query.DBTX, now pgtype.Timestamptz) (int64, error) {
	args := m.Called(ctx, db, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestIdempotencyRepository_TryInsert(t *testing.T) {
	claim := shared.IdempotencyClaim{
		Key:         uuid.New(),
		CustomerID:  uuid.New(),
		Endpoint:    "POST /api/checkout",
		RequestHash: "abc123",
		ExpiresAt:   time.Date(2030, 1, 7, 12, 0, 0, 0, time.UTC),
	}

	testCases := []struct {
		name       string
		rows       int64
		err        error
		wantInsert bool
		wantKind   infra.RepositoryErrorKind
	}{
		{name: "fresh key is inserted", rows: 1, wantInsert: true},
		{name: "held key is left alone", rows: 0},
		{name: "database error is wrapped", err: &pgconn.PgError{Code: "57P01"}, wantKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mq := new(MockIdempotencyWriteQueries)
			mq.On("TryInsertIdempotencyKey", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.TryInsertIdempotencyKeyParams) bool {
				return p.Key == claim.Key &&
					p.CustomerID == claim.CustomerID &&
					p.RequestHash == "abc123" &&
					p.ExpiresAt.Time.Equal(claim.ExpiresAt)
			})).Return(tc.rows, tc.err)

			repo := NewIdempotencyRepository(mq, nil)
			inserted, err := repo.TryInsert(context.Background(), claim)
			if tc.wantKind != "" {
				assert.True(t, infra.IsKind(err, tc.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantInsert, inserted)
			mq.AssertExpectations(t)
		})
	}
}

func TestIdempotencyRepository_UpdateStatusCompleted(t *testing.T) {
	key, customerID, bookingID := uuid.New(), uuid.New(), uuid.New()

	mq := new(MockIdempotencyWriteQueries)
	mq.On("UpdateIdempotencyKeyCompleted", mock.Anything, mock.Anything, key, customerID,
		pgtype.UUID{Bytes: bookingID, Valid: true}).Return(nil)

	repo := NewIdempotencyRepository(mq, nil)
	require.NoError(t, repo.UpdateStatusCompleted(context.Background(), key, customerID, bookingID))
	mq.AssertExpectations(t)
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	now := time.Date(2030, 1, 7, 12, 0, 0, 0, time.UTC)

	mq := new(MockIdempotencyWriteQueries)
	mq.On("DeleteExpiredIdempotencyKeys", mock.Anything, mock.Anything, mock.MatchedBy(func(ts pgtype.Timestamptz) bool {
		return ts.Time.Equal(now)
	})).Return(int64(3), nil)

	repo := NewIdempotencyRepository(mq, nil)
	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

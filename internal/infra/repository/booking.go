package repository

import (
	"context"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/infra/repository/converter"
	"slot-reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) error
	GetBookingByIDForUpdate(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Booking, error)
	TransitionBookingStatus(ctx context.Context, db query.DBTX, arg query.TransitionBookingStatusParams) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      query.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db query.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if err := r.queries.CreateBooking(ctx, r.db, converter.BookingToCreateParams(b)); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingByIDForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}

	b, err := converter.BookingFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode booking", err, infra.KindDBFailure)
	}
	return b, nil
}

// Transition only touches rows still PENDING; an exclusion violation surfaces as KindConflict.
func (r *BookingRepository) Transition(ctx context.Context, b *booking.Booking) (bool, error) {
	affected, err := r.queries.TransitionBookingStatus(ctx, r.db, converter.BookingToTransitionParams(b))
	if err != nil {
		return false, infra.WrapRepoErr("failed to transition booking status", err)
	}
	return affected == 1, nil
}

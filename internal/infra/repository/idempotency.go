package repository

import (
	"context"
	"time"

	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/pkg/pgconv"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyWriteQueries interface {
	TryInsertIdempotencyKey(ctx context.Context, db query.DBTX, arg query.TryInsertIdempotencyKeyParams) (int64, error)
	ClaimExpiredIdempotencyKey(ctx context.Context, db query.DBTX, arg query.ClaimExpiredIdempotencyKeyParams) (int64, error)
	UpdateIdempotencyKeyCompleted(ctx context.Context, db query.DBTX, key, customerID uuid.UUID, resultBookingID pgtype.UUID) error
	ReleaseIdempotencyKey(ctx context.Context, db query.DBTX, key, customerID uuid.UUID) error
	DeleteExpiredIdempotencyKeys(ctx context.Context, db query.DBTX, now pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      query.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db query.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, claim shared.IdempotencyClaim) (bool, error) {
	n, err := r.queries.TryInsertIdempotencyKey(ctx, r.db, query.TryInsertIdempotencyKeyParams{
		Key:         claim.Key,
		CustomerID:  claim.CustomerID,
		Endpoint:    claim.Endpoint,
		RequestHash: claim.RequestHash,
		ExpiresAt:   pgconv.TimeToPgtype(claim.ExpiresAt),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return n == 1, nil
}

func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, claim shared.IdempotencyClaim, now time.Time) (bool, error) {
	n, err := r.queries.ClaimExpiredIdempotencyKey(ctx, r.db, query.ClaimExpiredIdempotencyKeyParams{
		Key:         claim.Key,
		CustomerID:  claim.CustomerID,
		Endpoint:    claim.Endpoint,
		RequestHash: claim.RequestHash,
		ExpiresAt:   pgconv.TimeToPgtype(claim.ExpiresAt),
		Now:         pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}
	return n == 1, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, key, customerID, bookingID uuid.UUID) error {
	err := r.queries.UpdateIdempotencyKeyCompleted(ctx, r.db, key, customerID, pgconv.UUIDToPgtype(bookingID))
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key, customerID uuid.UUID) error {
	if err := r.queries.ReleaseIdempotencyKey(ctx, r.db, key, customerID); err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return count, nil
}

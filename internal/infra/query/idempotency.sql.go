package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const tryInsertIdempotencyKey = `-- name: TryInsertIdempotencyKey :execrows
INSERT INTO idempotency_keys (key, customer_id, endpoint, request_hash, expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (key, customer_id) DO NOTHING
`

type TryInsertIdempotencyKeyParams struct {
	Key         uuid.UUID
	CustomerID  uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   pgtype.Timestamptz
}

func (q *Queries) TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error) {
	result, err := db.Exec(ctx, tryInsertIdempotencyKey,
		arg.Key,
		arg.CustomerID,
		arg.Endpoint,
		arg.RequestHash,
		arg.ExpiresAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getIdempotencyKey = `-- name: GetIdempotencyKey :one
SELECT key, customer_id, endpoint, request_hash, status, result_booking_id, expires_at, created_at, updated_at
FROM idempotency_keys
WHERE key = $1 AND customer_id = $2
`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, key, customerID uuid.UUID) (IdempotencyKey, error) {
	row := db.QueryRow(ctx, getIdempotencyKey, key, customerID)
	var i IdempotencyKey
	err := row.Scan(
		&i.Key,
		&i.CustomerID,
		&i.Endpoint,
		&i.RequestHash,
		&i.Status,
		&i.ResultBookingID,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const claimExpiredIdempotencyKey = `-- name: ClaimExpiredIdempotencyKey :execrows
UPDATE idempotency_keys
SET endpoint = $3, request_hash = $4, status = 'processing', result_booking_id = NULL,
    expires_at = $5, updated_at = now()
WHERE key = $1 AND customer_id = $2 AND expires_at <= $6
`

type ClaimExpiredIdempotencyKeyParams struct {
	Key         uuid.UUID
	CustomerID  uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   pgtype.Timestamptz
	Now         pgtype.Timestamptz
}

func (q *Queries) ClaimExpiredIdempotencyKey(ctx context.Context, db DBTX, arg ClaimExpiredIdempotencyKeyParams) (int64, error) {
	result, err := db.Exec(ctx, claimExpiredIdempotencyKey,
		arg.Key,
		arg.CustomerID,
		arg.Endpoint,
		arg.RequestHash,
		arg.ExpiresAt,
		arg.Now,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateIdempotencyKeyCompleted = `-- name: UpdateIdempotencyKeyCompleted :exec
UPDATE idempotency_keys
SET status = 'completed', result_booking_id = $3, updated_at = now()
WHERE key = $1 AND customer_id = $2
`

func (q *Queries) UpdateIdempotencyKeyCompleted(ctx context.Context, db DBTX, key, customerID uuid.UUID, resultBookingID pgtype.UUID) error {
	_, err := db.Exec(ctx, updateIdempotencyKeyCompleted, key, customerID, resultBookingID)
	return err
}

const releaseIdempotencyKey = `-- name: ReleaseIdempotencyKey :exec
DELETE FROM idempotency_keys
WHERE key = $1 AND customer_id = $2 AND status = 'processing'
`

func (q *Queries) ReleaseIdempotencyKey(ctx context.Context, db DBTX, key, customerID uuid.UUID) error {
	_, err := db.Exec(ctx, releaseIdempotencyKey, key, customerID)
	return err
}

const deleteExpiredIdempotencyKeys = `-- name: DeleteExpiredIdempotencyKeys :execrows
DELETE FROM idempotency_keys
WHERE expires_at <= $1
`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX, now pgtype.Timestamptz) (int64, error) {
	result, err := db.Exec(ctx, deleteExpiredIdempotencyKeys, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

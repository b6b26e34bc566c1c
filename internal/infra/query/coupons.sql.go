package query

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getCouponByCode = `-- name: GetCouponByCode :one
SELECT id, code, rate::text, active, valid_from, valid_to, created_at, updated_at
FROM coupons
WHERE code = $1
`

func (q *Queries) GetCouponByCode(ctx context.Context, db DBTX, code string) (Coupon, error) {
	row := db.QueryRow(ctx, getCouponByCode, code)
	var i Coupon
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Rate,
		&i.Active,
		&i.ValidFrom,
		&i.ValidTo,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertCoupon = `-- name: UpsertCoupon :exec
INSERT INTO coupons (code, rate, active, valid_from, valid_to)
VALUES ($1, $2::numeric, $3, $4, $5)
ON CONFLICT (code) DO UPDATE SET
    rate = EXCLUDED.rate,
    active = EXCLUDED.active,
    valid_from = EXCLUDED.valid_from,
    valid_to = EXCLUDED.valid_to,
    updated_at = now()
`

type UpsertCouponParams struct {
	Code      string
	Rate      string
	Active    bool
	ValidFrom pgtype.Timestamptz
	ValidTo   pgtype.Timestamptz
}

func (q *Queries) UpsertCoupon(ctx context.Context, db DBTX, arg UpsertCouponParams) error {
	_, err := db.Exec(ctx, upsertCoupon, arg.Code, arg.Rate, arg.Active, arg.ValidFrom, arg.ValidTo)
	return err
}

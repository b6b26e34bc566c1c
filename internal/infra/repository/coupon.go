package repository

import (
	"context"

	"slot-reservation-engine/internal/domain/coupon"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/pkg/pgconv"
)

type CouponWriteQueries interface {
	UpsertCoupon(ctx context.Context, db query.DBTX, arg query.UpsertCouponParams) error
}

type CouponRepository struct {
	queries CouponWriteQueries
	db      query.DBTX
}

func NewCouponRepository(queries CouponWriteQueries, db query.DBTX) *CouponRepository {
	return &CouponRepository{
		queries: queries,
		db:      db,
	}
}

func (r *CouponRepository) Upsert(ctx context.Context, c *coupon.Coupon) error {
	params := query.UpsertCouponParams{
		Code:      c.Code().String(),
		Rate:      c.Rate().Decimal().String(),
		Active:    c.Active(),
		ValidFrom: pgconv.TimePtrToPgtype(c.ValidFrom()),
		ValidTo:   pgconv.TimePtrToPgtype(c.ValidTo()),
	}
	if err := r.queries.UpsertCoupon(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to upsert coupon", err)
	}
	return nil
}

package readstore

import (
	"context"
	"strings"

	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/pkg/pgconv"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=coupon.go -destination=../../../tests/mock/readstore/coupon.go -package=readstoremock

type CouponReadQueries interface {
	GetCouponByCode(ctx context.Context, db query.DBTX, code string) (query.Coupon, error)
}

type CouponReadStore struct {
	queries CouponReadQueries
}

func NewCouponReadStore(queries CouponReadQueries) *CouponReadStore {
	return &CouponReadStore{
		queries: queries,
	}
}

// FindByCode matches codes case-insensitively; stored codes are upper case.
func (r *CouponReadStore) FindByCode(ctx context.Context, db query.DBTX, code string) (*shared.CouponSnapshot, error) {
	normalizedCode := strings.ToUpper(strings.TrimSpace(code))
	row, err := r.queries.GetCouponByCode(ctx, db, normalizedCode)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	snap, err := toCouponSnapshotFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert coupon row", err, infra.KindDBFailure)
	}
	return snap, nil
}

func toCouponSnapshotFromRow(row query.Coupon) (*shared.CouponSnapshot, error) {
	rate, err := decimal.NewFromString(row.Rate)
	if err != nil {
		return nil, err
	}

	return &shared.CouponSnapshot{
		ID:        row.ID,
		Code:      row.Code,
		Rate:      rate,
		Active:    row.Active,
		ValidFrom: pgconv.TimePtrFromPgtype(row.ValidFrom),
		ValidTo:   pgconv.TimePtrFromPgtype(row.ValidTo),
	}, nil
}

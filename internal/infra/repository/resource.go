package repository

import (
	"context"

	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/infra/repository/converter"
)

type ResourceWriteQueries interface {
	UpsertResource(ctx context.Context, db query.DBTX, arg query.UpsertResourceParams) error
}

type ResourceRepository struct {
	queries ResourceWriteQueries
	db      query.DBTX
}

func NewResourceRepository(queries ResourceWriteQueries, db query.DBTX) *ResourceRepository {
	return &ResourceRepository{
		queries: queries,
		db:      db,
	}
}

// Upsert replaces zones and schedule wholesale; bookings keep referencing the resource id.
func (r *ResourceRepository) Upsert(ctx context.Context, res *resource.BookableResource) error {
	params, err := converter.ResourceToUpsertParams(res)
	if err != nil {
		return infra.WrapRepoErr("failed to encode resource", err, infra.KindDBFailure)
	}
	if err := r.queries.UpsertResource(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to upsert resource", err)
	}
	return nil
}

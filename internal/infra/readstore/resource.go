package readstore

import (
	"context"

	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/infra/repository/converter"
	"slot-reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

//go:generate mockgen -source=resource.go -destination=../../../tests/mock/readstore/resource.go -package=readstoremock

type ResourceReadQueries interface {
	GetResourceByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.BookableResource, error)
}

type ResourceReadStore struct {
	queries ResourceReadQueries
	db      query.DBTX
}

func NewResourceReadStore(queries ResourceReadQueries, db query.DBTX) *ResourceReadStore {
	return &ResourceReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceReadStore) ResourceByID(ctx context.Context, id uuid.UUID) (*resource.BookableResource, error) {
	row, err := r.queries.GetResourceByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource by ID", err)
	}

	res, err := converter.ResourceFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode resource", err, infra.KindDBFailure)
	}
	return res, nil
}

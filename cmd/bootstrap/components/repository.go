package components

import (
	"slot-reservation-engine/internal/infra/repository"

	"go.uber.org/fx"
)

// CatalogModule provides the write side of resources and coupons; only administrative commands use it.
var CatalogModule = fx.Module("catalog",
	fx.Provide(
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.ResourceWriteQueries)),
		),
		repository.NewResourceRepository,
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.CouponWriteQueries)),
		),
		repository.NewCouponRepository,
	),
)

package components

import (
	"slot-reservation-engine/internal/infra/cache"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/infra/readstore"
	"slot-reservation-engine/internal/infra/uow"
	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/usecase/queries"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Booking views and occupancy
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.BookingViewQueries)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
			fx.As(new(queries.OccupancyReader)),
		),
		// Resource catalog, read-through cached
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.ResourceReadQueries)),
		),
		readstore.NewResourceReadStore,
		fx.Annotate(
			NewResourceCatalog,
			fx.As(fx.Self()),
			fx.As(new(shared.ResourceCatalog)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

func NewResourceCatalog(store *readstore.ResourceReadStore, rdb *redis.Client, cfg config.Config) *cache.ResourceCatalog {
	return cache.NewResourceCatalog(store, rdb, cfg.Redis.Prefix, cfg.Redis.TTL)
}

func NewSQLQueries(_ *pgxpool.Pool) *query.Queries {
	return query.New()
}

func NewDBTX(pool *pgxpool.Pool) query.DBTX {
	return pool
}

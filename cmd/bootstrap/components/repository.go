package components

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"stay-booking/internal/infra/cache"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/infra/readstore"
	"stay-booking/internal/infra/repository"
	"stay-booking/internal/infra/uow"
	"stay-booking/internal/pkg/config"
	"stay-booking/internal/usecase/queries"
	"stay-booking/internal/usecase/shared"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		NewUnitReader,
		// Read-side store for queries
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

// NewUnitReader serves catalog lookups outside transactions, through Redis
// when a client is configured.
func NewUnitReader(dbtx db.DBTX, client *redis.Client, cfg config.Config) shared.UnitReader {
	return cache.NewUnitCache(client, repository.NewUnitRepository(dbtx), cfg.Redis.UnitCacheTTL)
}

package postgres

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/KeyzarRasya/lativa/pkg/e"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return e.Wrap("storage.pg.Migrate.SetDialect", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return e.Wrap("storage.pg.Migrate.Up", err)
	}
	return nil
}

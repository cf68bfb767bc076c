package postgres

import (
	"context"
	"fmt"

	"screener_bot/internal/modules/config"
	"screener_bot/pkg/db"
	"screener_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module поднимает пул postgres. Пустой DSN — история сигналов
// отключена, менеджер не создаётся.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					logger.Info("[PG] DSN не задан, история сигналов отключена")
					return nil, nil
				}
				pool, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create pool: %w", err)
				}

				if err = pool.Ping(ctx); err != nil {
					return nil, err
				}

				return db.NewPgTxManager(pool), nil
			},
		),
	)
}

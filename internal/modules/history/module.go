package history

import (
	"context"

	"screener_bot/internal/modules/history/service"
	"screener_bot/internal/monitor"
	"screener_bot/pkg/db"

	"go.uber.org/fx"
)

// Module поднимает репозиторий истории сигналов. Без postgres
// (nil-менеджер) репозиторий не создаётся, монитор работает без истории.
func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(
			func(tx *db.PgTxManager) *service.Repo {
				if tx == nil {
					return nil
				}
				return service.NewRepo(tx)
			},
			func(r *service.Repo) monitor.HistoryRecorder {
				if r == nil {
					return nil
				}
				return r
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, r *service.Repo) {
			if r == nil {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					return r.Migrate(ctx)
				},
			})
		}),
	)
}

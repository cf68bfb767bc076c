package telegram

import (
	"context"

	bybitws "screener_bot/internal/modules/bybit_websocket/service"
	"screener_bot/internal/modules/telegram_bot/service"
	"screener_bot/internal/monitor"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			service.NewTelegram,

			// адаптеры к контрактам соседей
			func(c *bybitws.Client) service.LastPricer {
				return c
			},
			func(t *service.Telegram) monitor.Notifier {
				return t
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, ctx context.Context, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						t.Start(ctx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}

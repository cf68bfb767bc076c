package bybit_websocket

import (
	"context"

	"screener_bot/internal/modules/bybit_websocket/service"
	healthsvc "screener_bot/internal/modules/health/service"
	"screener_bot/internal/monitor"

	"go.uber.org/fx"
)

// Module поднимает поток живых цен Bybit.
func Module() fx.Option {
	return fx.Module("bybit_websocket",
		fx.Provide(
			service.NewClient,
			func(c *service.Client) monitor.PriceFeed {
				return c
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, c *service.Client, health *healthsvc.State) {
			c.SetConnObserver(health)
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go c.Start(ctx)
					return nil
				},
			})
		}),
	)
}

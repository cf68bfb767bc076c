package bybit

import (
	"screener_bot/internal/modules/bybit/service"
	"screener_bot/internal/monitor"

	"go.uber.org/fx"
)

// Module поднимает REST-клиент Bybit и отдаёт его монитору как
// источник тикеров и свечей.
func Module() fx.Option {
	return fx.Module("bybit",
		fx.Provide(
			service.NewClient,
			func(c *service.Client) monitor.SymbolSource {
				return c
			},
			func(c *service.Client) monitor.CandleSource {
				return c
			},
		),
	)
}

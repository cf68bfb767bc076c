package settings

import (
	"screener_bot/internal/modules/config"
	"screener_bot/internal/modules/settings/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("settings",
		fx.Provide(
			func(cfg *config.Config) (*service.Store, error) {
				return service.NewStore(cfg.MonitorFile)
			},
		),
	)
}

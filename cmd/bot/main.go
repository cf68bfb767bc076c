package main

import (
	"context"
	"log"

	"screener_bot/internal/modules/bybit"
	bybitws "screener_bot/internal/modules/bybit_websocket"
	"screener_bot/internal/modules/config"
	"screener_bot/internal/modules/health"
	"screener_bot/internal/modules/history"
	"screener_bot/internal/modules/postgres"
	"screener_bot/internal/modules/settings"
	telegram "screener_bot/internal/modules/telegram_bot"
	"screener_bot/internal/monitor"
	"screener_bot/pkg/logger"
	"screener_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if err := logger.Init(cfg.LogLevel); err != nil {
				return err
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
		settings.Module(),
		health.Module(),
		postgres.Module(),
		history.Module(),
		bybit.Module(),
		bybitws.Module(),
		monitor.Module(),
		telegram.Module(),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	<-app.Done()
}

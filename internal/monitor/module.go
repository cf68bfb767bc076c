package monitor

import (
	"context"

	settingsvc "screener_bot/internal/modules/settings/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("monitor",
		fx.Provide(
			NewSignalState,
			NewUniverseCache,
			NewDispatcher,
			NewScheduler,
			func(s *settingsvc.Store) SettingsProvider {
				return s
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			ctx context.Context,
			sched *Scheduler,
			store *settingsvc.Store,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					sched.Start(ctx)
					store.Subscribe(sched.Reschedule(ctx))
					return nil
				},
				OnStop: func(_ context.Context) error {
					sched.Stop()
					return nil
				},
			})
		}),
	)
}

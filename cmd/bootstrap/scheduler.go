package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"stay-booking/internal/pkg/config"
	"stay-booking/internal/scheduler"
	"stay-booking/internal/usecase/commands"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewExpirySweeper,
	),
	fx.Invoke(registerSweeper),
)

func NewExpirySweeper(expiry commands.ExpiryCommands, cfg config.Config, logger *slog.Logger) *scheduler.ExpirySweeper {
	return scheduler.NewExpirySweeper(expiry, cfg.Sweep, logger)
}

func registerSweeper(lc fx.Lifecycle, sweeper *scheduler.ExpirySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			return sweeper.Stop(ctx)
		},
	})
}
